package triggers

import (
	"context"
	"fmt"
	"time"

	"github.com/gr80mcbr/lwfm"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// Service is the specialized interface for managing Triggers. It's decoupled
// from underlying technology choices (e.g. data store) to keep business logic
// reusable and consistent while the underlying tech stack remains free to
// change.
type Service interface {
	// Register stores a new Trigger and returns a reference bearing its
	// server-assigned handler id.
	Register(context.Context, lwfm.Trigger) (lwfm.TriggerReference, error)
	// Unregister removes the Trigger with the given handler id. Unregistering
	// an unknown handler id is not an error; the result reports whether
	// anything was actually removed.
	Unregister(
		ctx context.Context,
		handlerID string,
	) (lwfm.TriggerUnregisterResult, error)
	// UnregisterAll removes all Triggers and reports how many were removed.
	UnregisterAll(context.Context) (lwfm.TriggerUnregisterAllResult, error)
	// List returns all registered Triggers in registration order, oldest
	// first.
	List(context.Context) (lwfm.TriggerList, error)
}

type service struct {
	store Store
}

// NewService returns a specialized interface for managing Triggers.
func NewService(store Store) Service {
	return &service{
		store: store,
	}
}

func (s *service) Register(
	ctx context.Context,
	trigger lwfm.Trigger,
) (lwfm.TriggerReference, error) {
	ref := lwfm.TriggerReference{}
	if trigger.SourceJobID == "" {
		return ref, lwfm.NewErrBadRequest(
			"A trigger requires a source job id.",
		)
	}
	valid := false
	for _, status := range lwfm.CanonicalStatusesAll() {
		if trigger.AwaitedStatus == status {
			valid = true
			break
		}
	}
	if !valid {
		return ref, lwfm.NewErrBadRequest(
			fmt.Sprintf(
				"Awaited status %q is not a canonical status.",
				trigger.AwaitedStatus,
			),
		)
	}
	if trigger.FireDefn.EntryPointPath == "" {
		return ref, lwfm.NewErrBadRequest(
			"A trigger's job definition requires an entry point path.",
		)
	}
	if trigger.TargetSiteName == "" {
		return ref, lwfm.NewErrBadRequest(
			"A trigger requires a target site name.",
		)
	}

	trigger.TypeMeta = lwfm.TypeMeta{
		APIVersion: lwfm.APIVersion,
		Kind:       "Trigger",
	}
	trigger.HandlerID = uuid.NewV4().String()
	now := time.Now().UTC().Truncate(time.Millisecond)
	trigger.Created = &now

	if err := s.store.Create(ctx, trigger); err != nil {
		return ref, errors.Wrapf(
			err,
			"error storing new trigger %q",
			trigger.HandlerID,
		)
	}
	return lwfm.NewTriggerReference(trigger.HandlerID), nil
}

func (s *service) Unregister(
	ctx context.Context,
	handlerID string,
) (lwfm.TriggerUnregisterResult, error) {
	removed, err := s.store.Delete(ctx, handlerID)
	if err != nil {
		return lwfm.TriggerUnregisterResult{}, errors.Wrapf(
			err,
			"error removing trigger %q from store",
			handlerID,
		)
	}
	return lwfm.NewTriggerUnregisterResult(removed), nil
}

func (s *service) UnregisterAll(
	ctx context.Context,
) (lwfm.TriggerUnregisterAllResult, error) {
	count, err := s.store.DeleteAll(ctx)
	if err != nil {
		return lwfm.TriggerUnregisterAllResult{}, errors.Wrap(
			err,
			"error removing all triggers from store",
		)
	}
	return lwfm.NewTriggerUnregisterAllResult(count), nil
}

func (s *service) List(ctx context.Context) (lwfm.TriggerList, error) {
	triggerList, err := s.store.List(ctx)
	if err != nil {
		return triggerList, errors.Wrap(
			err,
			"error retrieving triggers from store",
		)
	}
	return triggerList, nil
}
