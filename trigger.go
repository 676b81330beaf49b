package lwfm

import "time"

// Trigger represents a registered intent: when the source job is observed at
// the awaited canonical status, submit the fire definition on the target
// site, chained to the source job's lineage. Triggers are one-shot -- a
// successful fire removes them -- except when the awaited status is INFO,
// which is evaluated on every INFO observation and never auto-removed.
type Trigger struct {
	TypeMeta `json:",inline" bson:",inline"`
	// HandlerID uniquely identifies the trigger. It is assigned at
	// registration; clients must leave it unset.
	HandlerID string `json:"handlerId,omitempty" bson:"handlerId"`
	// SourceJobID is the id of the job whose observations are evaluated.
	SourceJobID string `json:"sourceJobId" bson:"sourceJobId"`
	// SourceSiteName names the site the source job runs on.
	SourceSiteName string `json:"sourceSiteName,omitempty" bson:"sourceSiteName"` // nolint: lll
	// AwaitedStatus is the canonical status that causes the trigger to fire.
	AwaitedStatus CanonicalStatus `json:"awaitedStatus" bson:"awaitedStatus"`
	// FireDefn is the work submitted when the trigger fires.
	FireDefn JobDefn `json:"fireDefn" bson:"fireDefn"`
	// TargetSiteName names the site FireDefn is submitted to.
	TargetSiteName string `json:"targetSiteName" bson:"targetSiteName"`
	// TargetContext optionally carries a pre-chained context for the fired
	// job. When omitted, the sentinel synthesizes a child of the source job's
	// context at fire time. Either way, the fired job's parent is the source
	// job.
	TargetContext *JobContext `json:"targetContext,omitempty" bson:"targetContext,omitempty"` // nolint: lll
	// Created indicates the time the trigger was registered. It is stamped by
	// the sentinel; triggers for the same source job are evaluated in
	// registration order.
	Created *time.Time `json:"created,omitempty" bson:"created,omitempty"`
}

// NewTrigger returns a Trigger awaiting the given canonical status of the
// given source job, ready for registration.
func NewTrigger(
	sourceJobID string,
	sourceSiteName string,
	awaitedStatus CanonicalStatus,
	fireDefn JobDefn,
	targetSiteName string,
) Trigger {
	return Trigger{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "Trigger",
		},
		SourceJobID:    sourceJobID,
		SourceSiteName: sourceSiteName,
		AwaitedStatus:  awaitedStatus,
		FireDefn:       fireDefn,
		TargetSiteName: targetSiteName,
	}
}

// IsRepeatable returns true if the trigger survives its own firing. Only
// INFO-awaiting triggers are repeatable.
func (t Trigger) IsRepeatable() bool {
	return t.AwaitedStatus == StatusInfo
}

// TriggerList is an ordered list of Triggers. List responses order items by
// registration time, oldest first.
type TriggerList struct {
	TypeMeta `json:",inline"`
	// Items is a slice of Triggers.
	Items []Trigger `json:"items"`
}

// NewTriggerList returns an empty TriggerList.
func NewTriggerList() TriggerList {
	return TriggerList{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "TriggerList",
		},
		Items: []Trigger{},
	}
}

// TriggerReference is a compact pointer to a registered trigger.
type TriggerReference struct {
	TypeMeta `json:",inline"`
	// HandlerID uniquely identifies the registered trigger.
	HandlerID string `json:"handlerId"`
}

// NewTriggerReference returns a TriggerReference for the given handler id.
func NewTriggerReference(handlerID string) TriggerReference {
	return TriggerReference{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "TriggerReference",
		},
		HandlerID: handlerID,
	}
}

// TriggerUnregisterResult reports whether unregistration removed a trigger.
// Unregistration of an absent handler id is a negative result, not an error.
type TriggerUnregisterResult struct {
	TypeMeta `json:",inline"`
	// Removed is true if a trigger was found and removed.
	Removed bool `json:"removed"`
}

// NewTriggerUnregisterResult returns a TriggerUnregisterResult.
func NewTriggerUnregisterResult(removed bool) TriggerUnregisterResult {
	return TriggerUnregisterResult{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "TriggerUnregisterResult",
		},
		Removed: removed,
	}
}

// TriggerUnregisterAllResult reports how many triggers a bulk clear removed.
type TriggerUnregisterAllResult struct {
	TypeMeta `json:",inline"`
	// Count is the number of triggers removed.
	Count int64 `json:"count"`
}

// NewTriggerUnregisterAllResult returns a TriggerUnregisterAllResult.
func NewTriggerUnregisterAllResult(count int64) TriggerUnregisterAllResult {
	return TriggerUnregisterAllResult{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "TriggerUnregisterAllResult",
		},
		Count: count,
	}
}
