package lwfm

import "time"

// CanonicalStatus represents the engine-wide vocabulary of job states. Every
// site-native status string is translated into one of these values before an
// observation is stored or evaluated against registered triggers.
type CanonicalStatus string

const (
	// StatusUnknown represents the state wherein a job's state could not be
	// determined -- most commonly because a native status string was absent
	// from the status map in effect.
	StatusUnknown CanonicalStatus = "UNKNOWN"
	// StatusPending represents the state wherein a job has been submitted to
	// a site but has not yet begun execution.
	StatusPending CanonicalStatus = "PENDING"
	// StatusRunning represents the state wherein a job is currently being
	// executed.
	StatusRunning CanonicalStatus = "RUNNING"
	// StatusInfo represents a non-terminal, informational observation about a
	// job. Unlike every other status, INFO may be observed an unbounded
	// number of times for the same job; its arrival closes nothing.
	StatusInfo CanonicalStatus = "INFO"
	// StatusFinishing represents the state wherein a job has finished
	// executing and its site is completing post-run activity, e.g. staging
	// data out or releasing resources.
	StatusFinishing CanonicalStatus = "FINISHING"
	// StatusComplete represents the terminal state wherein a job has run to
	// completion without error.
	StatusComplete CanonicalStatus = "COMPLETE"
	// StatusFailed represents the terminal state wherein a job has stopped
	// with errors.
	StatusFailed CanonicalStatus = "FAILED"
	// StatusCancelled represents the terminal state wherein a job was stopped
	// before completion, whether by a user or by the site itself.
	StatusCancelled CanonicalStatus = "CANCELLED"
)

// CanonicalStatusesAll returns a slice containing ALL canonical statuses.
// Instead of utilizing a package-level slice, this function returns ad-hoc
// copies of the slice in order to preclude the possibility of this important
// collection being modified at runtime.
func CanonicalStatusesAll() []CanonicalStatus {
	return []CanonicalStatus{
		StatusUnknown,
		StatusPending,
		StatusRunning,
		StatusInfo,
		StatusFinishing,
		StatusComplete,
		StatusFailed,
		StatusCancelled,
	}
}

// CanonicalStatusesTerminal returns a slice containing all canonical statuses
// that are considered terminal. Instead of utilizing a package-level slice,
// this function returns ad-hoc copies of the slice in order to preclude the
// possibility of this important collection being modified at runtime.
func CanonicalStatusesTerminal() []CanonicalStatus {
	return []CanonicalStatus{
		StatusComplete,
		StatusFailed,
		StatusCancelled,
	}
}

// IsTerminal returns true if a job observed at this status will never
// transition to any other status.
func (c CanonicalStatus) IsTerminal() bool {
	return c == StatusComplete || c == StatusFailed || c == StatusCancelled
}

// StatusMap translates site-native status strings into canonical statuses.
// Each site driver owns the table for its own native vocabulary and supplies
// it with every observation it emits; the sentinel never mutates a table.
type StatusMap map[string]CanonicalStatus

// DefaultStatusMap returns the identity table, which maps each canonical
// status name to itself. Sites whose native vocabulary is already canonical
// emit with this table unmodified.
func DefaultStatusMap() StatusMap {
	statusMap := StatusMap{}
	for _, status := range CanonicalStatusesAll() {
		statusMap[string(status)] = status
	}
	return statusMap
}

// Canonicalize looks up the given native status string in the table. A native
// status absent from the table resolves to StatusUnknown with a false second
// return so callers can log the miss; mapping never fails.
func (s StatusMap) Canonicalize(nativeStatus string) (CanonicalStatus, bool) {
	if status, ok := s[nativeStatus]; ok {
		return status, true
	}
	return StatusUnknown, false
}

// JobStatus represents a single observation of a job's state at a moment in
// time.
type JobStatus struct {
	TypeMeta `json:",inline" bson:",inline"`
	// JobContext identifies the job this observation describes.
	JobContext JobContext `json:"jobContext" bson:"jobContext"`
	// Status is the canonical state of the job as of EmitTime.
	Status CanonicalStatus `json:"status" bson:"status"`
	// NativeStatus is the raw, site-specific state string this observation
	// was derived from.
	NativeStatus string `json:"nativeStatus" bson:"nativeStatus"`
	// EmitTime indicates the time the emitting site produced this
	// observation, at millisecond precision.
	EmitTime time.Time `json:"emitTime" bson:"emitTime"`
	// ReceivedTime indicates the time the sentinel accepted this observation.
	// It is stamped on arrival and is useful for measuring polling latency.
	// Clients must leave it unset.
	ReceivedTime time.Time `json:"receivedTime,omitempty" bson:"receivedTime"`
	// NativeInfo carries free-form site detail about the observation. It is
	// populated mainly for INFO observations.
	NativeInfo string `json:"nativeInfo,omitempty" bson:"nativeInfo,omitempty"`
	// StatusMap is the native-to-canonical table in effect when this
	// observation was produced.
	StatusMap StatusMap `json:"statusMap,omitempty" bson:"statusMap,omitempty"`
}

// NewJobStatus returns a JobStatus for the given job, canonicalized from the
// given native status string using the given table. A nil table applies the
// default identity mapping. EmitTime is stamped with the current time at
// millisecond precision.
func NewJobStatus(
	jobContext JobContext,
	nativeStatus string,
	statusMap StatusMap,
) JobStatus {
	if statusMap == nil {
		statusMap = DefaultStatusMap()
	}
	status, _ := statusMap.Canonicalize(nativeStatus)
	return JobStatus{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "JobStatus",
		},
		JobContext:   jobContext,
		Status:       status,
		NativeStatus: nativeStatus,
		EmitTime:     time.Now().UTC().Truncate(time.Millisecond),
		StatusMap:    statusMap,
	}
}

// Summary returns the flattened, dashboard-friendly digest of this
// observation. NativeInfo is included only for INFO observations.
func (j JobStatus) Summary() JobStatusSummary {
	summary := JobStatusSummary{
		JobID:       j.JobContext.ID,
		ParentJobID: j.JobContext.ParentJobID,
		OriginJobID: j.JobContext.OriginJobID,
		NativeJobID: j.JobContext.NativeID,
		Status:      j.Status,
		EmitTime:    j.EmitTime,
		SiteName:    j.JobContext.SiteName,
	}
	if j.Status == StatusInfo {
		summary.NativeInfo = j.NativeInfo
	}
	return summary
}

// JobStatusList is an ordered list of JobStatuses. History responses order
// items chronologically by EmitTime.
type JobStatusList struct {
	TypeMeta `json:",inline"`
	// Items is a slice of JobStatuses.
	Items []JobStatus `json:"items"`
}

// NewJobStatusList returns an empty JobStatusList.
func NewJobStatusList() JobStatusList {
	return JobStatusList{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "JobStatusList",
		},
		Items: []JobStatus{},
	}
}

// JobStatusSummary is a flattened digest of one observation, sized for
// dashboards and workflow views.
type JobStatusSummary struct {
	// JobID is the engine-wide id of the observed job.
	JobID string `json:"jobId"`
	// ParentJobID is the id of the observed job's immediate predecessor,
	// empty for a seminal job.
	ParentJobID string `json:"parentJobId,omitempty"`
	// OriginJobID is the id of the observed job's oldest ancestor.
	OriginJobID string `json:"originJobId"`
	// NativeJobID is the site-assigned id of the observed job.
	NativeJobID string `json:"nativeJobId"`
	// Status is the canonical state of the job as of EmitTime.
	Status CanonicalStatus `json:"status"`
	// EmitTime indicates the time the observation was produced.
	EmitTime time.Time `json:"emitTime"`
	// SiteName names the site the job runs on.
	SiteName string `json:"siteName,omitempty"`
	// NativeInfo carries site detail for INFO observations.
	NativeInfo string `json:"nativeInfo,omitempty"`
}

// JobStatusSummaryMap maps job ids to digests of each job's most recent
// observation.
type JobStatusSummaryMap struct {
	TypeMeta `json:",inline"`
	// Items maps job ids to summaries.
	Items map[string]JobStatusSummary `json:"items"`
}

// NewJobStatusSummaryMap returns an empty JobStatusSummaryMap.
func NewJobStatusSummaryMap() JobStatusSummaryMap {
	return JobStatusSummaryMap{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "JobStatusSummaryMap",
		},
		Items: map[string]JobStatusSummary{},
	}
}
