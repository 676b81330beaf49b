package lwfm

// JobSubmission is the payload the sentinel posts to a site's run driver when
// a trigger fires: the definition of the work plus the fully chained identity
// the new job must carry.
type JobSubmission struct {
	TypeMeta `json:",inline"`
	// Defn describes the work to run.
	Defn JobDefn `json:"defn"`
	// JobContext is the identity assigned to the new job. The run driver must
	// echo it, native id filled in, on every status it emits for the job.
	JobContext JobContext `json:"jobContext"`
}

// NewJobSubmission pairs a job definition with the identity the resulting job
// must carry.
func NewJobSubmission(defn JobDefn, jobContext JobContext) JobSubmission {
	return JobSubmission{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "JobSubmission",
		},
		Defn:       defn,
		JobContext: jobContext,
	}
}
