package statuses

import (
	"context"

	"github.com/gr80mcbr/lwfm"
)

// Cache holds each job's latest observation for fast lookups. It is best
// effort only. The Store remains authoritative and callers are expected to
// fall through to it on any miss or fault.
type Cache interface {
	// GetLatestStatus returns the cached latest observation of the given job.
	// The boolean reports whether anything was cached.
	GetLatestStatus(
		ctx context.Context,
		jobID string,
	) (lwfm.JobStatus, bool, error)
	// SetLatestStatus caches the given observation as its job's latest unless
	// something newer is already cached.
	SetLatestStatus(context.Context, lwfm.JobStatus) error
}
