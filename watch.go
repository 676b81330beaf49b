package lwfm

// Watch asks the sentinel to track a job until it reaches a terminal status.
// Registering a watch records the job's identity up front, so lineage queries
// can be answered before -- or entirely without -- status traffic for the
// job. A watch never fires a submission; terminal observations simply retire
// it.
type Watch struct {
	TypeMeta `json:",inline" bson:",inline"`
	// JobID is the engine-wide id of the tracked job.
	JobID string `json:"jobId" bson:"jobId"`
	// ParentJobID is the id of the tracked job's immediate predecessor, empty
	// for a seminal job.
	ParentJobID string `json:"parentJobId,omitempty" bson:"parentJobId"`
	// OriginJobID is the id of the tracked job's oldest ancestor. When empty,
	// the job is taken to be its own originator.
	OriginJobID string `json:"originJobId,omitempty" bson:"originJobId"`
	// NativeJobID is the site-assigned id of the tracked job.
	NativeJobID string `json:"nativeJobId,omitempty" bson:"nativeJobId"`
	// SiteName names the site the tracked job runs on.
	SiteName string `json:"siteName,omitempty" bson:"siteName"`
}

// NewWatch returns a Watch for the given job identity.
func NewWatch(
	jobID string,
	parentJobID string,
	originJobID string,
	nativeJobID string,
	siteName string,
) Watch {
	return Watch{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "Watch",
		},
		JobID:       jobID,
		ParentJobID: parentJobID,
		OriginJobID: originJobID,
		NativeJobID: nativeJobID,
		SiteName:    siteName,
	}
}

// JobContext returns the identity record a watch registers, normalized per
// the lineage rules: an empty origin resolves to the job's own id and an
// empty native id defaults to the engine-wide id.
func (w Watch) JobContext() JobContext {
	jobContext := JobContext{
		ID:          w.JobID,
		NativeID:    w.NativeJobID,
		ParentJobID: w.ParentJobID,
		OriginJobID: w.OriginJobID,
		Name:        w.JobID,
		SiteName:    w.SiteName,
	}
	if jobContext.OriginJobID == "" {
		jobContext.OriginJobID = w.JobID
	}
	if jobContext.NativeID == "" {
		jobContext.NativeID = w.JobID
	}
	return jobContext
}
