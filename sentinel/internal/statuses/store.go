package statuses

import (
	"context"

	"github.com/gr80mcbr/lwfm"
)

type Store interface {
	// CreateStatus appends one observation to a job's history. A report is
	// identified by (job id, native status, emit time); implementations MUST
	// return a *lwfm.ErrConflict error when that identity has been stored
	// before, leaving the history unchanged.
	CreateStatus(context.Context, lwfm.JobStatus) error
	// GetLatestStatus returns the observation with the most recent emit time
	// for the given job. If the job has no history, implementations MUST
	// return a *lwfm.ErrNotFound error.
	GetLatestStatus(ctx context.Context, jobID string) (lwfm.JobStatus, error)
	// GetStatusHistory returns all of a job's observations ordered by emit
	// time, oldest first. If the job has no history, implementations MUST
	// return a *lwfm.ErrNotFound error.
	GetStatusHistory(
		ctx context.Context,
		jobID string,
	) (lwfm.JobStatusList, error)
	// ListLatestStatuses returns the most recent observation of every job the
	// sentinel has ever heard from.
	ListLatestStatuses(context.Context) (lwfm.JobStatusList, error)
	// UpsertContext stores a job's identity, replacing any identity previously
	// stored for the same job id.
	UpsertContext(context.Context, lwfm.JobContext) error
	// GetContext returns the identity stored for the given job id. If none is
	// stored, implementations MUST return a *lwfm.ErrNotFound error.
	GetContext(ctx context.Context, jobID string) (lwfm.JobContext, error)
	// UpsertWatch stores a watch, replacing any watch previously stored for
	// the same job id.
	UpsertWatch(context.Context, lwfm.Watch) error
	// DeleteWatch removes the watch on the given job id, if one exists, and
	// reports whether anything was removed.
	DeleteWatch(ctx context.Context, jobID string) (bool, error)
}
