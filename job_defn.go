package lwfm

// JobDefn represents an uninstantiated description of work -- what to run and
// how, absent any identity. A site's run driver instantiates a job from a
// JobDefn plus a JobContext.
type JobDefn struct {
	// Name is a human-readable label for jobs instantiated from this
	// definition.
	Name string `json:"name,omitempty" bson:"name"`
	// ComputeType is the site-defined resource class to run on.
	ComputeType string `json:"computeType,omitempty" bson:"computeType"`
	// EntryPointPath is the command or script the site is asked to run.
	EntryPointPath string `json:"entryPointPath" bson:"entryPointPath"`
	// NotificationEmail is an optional address the site notifies when the job
	// reaches a terminal state.
	NotificationEmail string `json:"notificationEmail,omitempty" bson:"notificationEmail"` // nolint: lll
	// Args are positional arguments passed to the entry point.
	Args []string `json:"args,omitempty" bson:"args"`
	// SiteArgs are site-specific extras, opaque to the sentinel and passed
	// through to the run driver verbatim.
	SiteArgs map[string]string `json:"siteArgs,omitempty" bson:"siteArgs"`
}
