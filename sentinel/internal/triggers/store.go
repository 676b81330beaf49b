package triggers

import (
	"context"

	"github.com/gr80mcbr/lwfm"
)

type Store interface {
	// Create stores a new Trigger.
	Create(context.Context, lwfm.Trigger) error
	// List returns all registered Triggers in registration order, oldest
	// first.
	List(context.Context) (lwfm.TriggerList, error)
	// ListBySourceJob returns all Triggers awaiting statuses of the given job,
	// in registration order, oldest first.
	ListBySourceJob(ctx context.Context, jobID string) (lwfm.TriggerList, error)
	// Delete removes the Trigger with the given handler id. It returns false,
	// without error, if no such Trigger exists.
	Delete(ctx context.Context, handlerID string) (bool, error)
	// DeleteAll removes all Triggers and returns how many were removed.
	DeleteAll(context.Context) (int64, error)
	// Claim atomically removes the Trigger with the given handler id on behalf
	// of a caller that intends to fire it. At most one concurrent caller can
	// claim any given Trigger. It returns false, without error, if the Trigger
	// was already claimed (or never existed).
	Claim(ctx context.Context, handlerID string) (bool, error)
}
