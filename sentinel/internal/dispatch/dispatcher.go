package dispatch

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gr80mcbr/lwfm"
	"github.com/gr80mcbr/lwfm/sentinel/internal/metrics"
	"github.com/gr80mcbr/lwfm/sentinel/internal/sites"
	"github.com/gr80mcbr/lwfm/sentinel/internal/triggers"
	"github.com/pkg/errors"
)

// Dispatcher evaluates a freshly recorded status against the trigger registry
// and fires whatever matches.
type Dispatcher interface {
	// Dispatch fires all triggers matching the given status. It returns one
	// warning per trigger that matched but could not be fired. Only failures to
	// consult the registry itself are returned as errors; individual dispatch
	// failures are not.
	Dispatch(ctx context.Context, status lwfm.JobStatus) ([]string, error)
}

type dispatcher struct {
	triggersStore triggers.Store
	submitter     sites.Submitter
	timeout       time.Duration
}

// NewDispatcher returns a Dispatcher that submits fired jobs through the
// given Submitter. No single submission is allowed to run longer than the
// given timeout.
func NewDispatcher(
	triggersStore triggers.Store,
	submitter sites.Submitter,
	timeout time.Duration,
) Dispatcher {
	return &dispatcher{
		triggersStore: triggersStore,
		submitter:     submitter,
		timeout:       timeout,
	}
}

func (d *dispatcher) Dispatch(
	ctx context.Context,
	status lwfm.JobStatus,
) ([]string, error) {
	triggerList, err := d.triggersStore.ListBySourceJob(
		ctx,
		status.JobContext.ID,
	)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error retrieving triggers for job %q from store",
			status.JobContext.ID,
		)
	}

	// Select triggers awaiting this canonical status, in registration order.
	// One-shot triggers are claimed (atomically removed) BEFORE they're fired
	// so that no concurrent observation of the same status can fire them
	// twice. INFO triggers are repeatable and stay registered.
	fired := []lwfm.Trigger{}
	for _, trigger := range triggerList.Items {
		if trigger.AwaitedStatus != status.Status {
			continue
		}
		if !trigger.IsRepeatable() {
			claimed, err := d.triggersStore.Claim(ctx, trigger.HandlerID)
			if err != nil {
				log.Println(
					errors.Wrapf(err, "error claiming trigger %q", trigger.HandlerID),
				)
				continue
			}
			if !claimed {
				// Another observation got there first
				continue
			}
		}
		fired = append(fired, trigger)
	}

	// Fire concurrently. Warnings land in registration order regardless of
	// which submission finishes first.
	results := make([]string, len(fired))
	var wg sync.WaitGroup
	for i, trigger := range fired {
		wg.Add(1)
		go func(i int, trigger lwfm.Trigger) {
			defer wg.Done()
			if err := d.fire(ctx, trigger, status); err != nil {
				log.Println(
					errors.Wrapf(err, "error firing trigger %q", trigger.HandlerID),
				)
				metrics.DispatchFailures.WithLabelValues(
					trigger.TargetSiteName,
				).Inc()
				results[i] = fmt.Sprintf(
					"trigger %q (job %q reached %s) was not dispatched to site %q: %v",
					trigger.HandlerID,
					trigger.SourceJobID,
					trigger.AwaitedStatus,
					trigger.TargetSiteName,
					err,
				)
				return
			}
			metrics.TriggersFired.WithLabelValues(
				string(trigger.AwaitedStatus),
			).Inc()
		}(i, trigger)
	}
	wg.Wait()

	warnings := []string{}
	for _, result := range results {
		if result != "" {
			warnings = append(warnings, result)
		}
	}
	return warnings, nil
}

func (d *dispatcher) fire(
	ctx context.Context,
	trigger lwfm.Trigger,
	status lwfm.JobStatus,
) error {
	fireCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	targetContext := newTargetContext(trigger, status)
	firstStatus, err := d.submitter.Submit(
		fireCtx,
		trigger.TargetSiteName,
		trigger.FireDefn,
		targetContext,
	)
	if err != nil {
		return err
	}
	log.Printf(
		"trigger %q fired: job %q submitted to site %q with initial status %s",
		trigger.HandlerID,
		targetContext.ID,
		trigger.TargetSiteName,
		firstStatus.Status,
	)
	return nil
}

// newTargetContext derives the identity of the job a trigger submits. The new
// job is always the source job's child: its parent is the source job itself
// and its origin is inherited from the source job. A target context supplied
// at registration contributes everything else, but can't lie about lineage.
func newTargetContext(
	trigger lwfm.Trigger,
	status lwfm.JobStatus,
) lwfm.JobContext {
	source := status.JobContext
	if trigger.TargetContext == nil {
		targetContext := lwfm.NewChildJobContext(source)
		targetContext.SiteName = trigger.TargetSiteName
		if trigger.FireDefn.ComputeType != "" {
			targetContext.ComputeType = trigger.FireDefn.ComputeType
		}
		if trigger.FireDefn.Name != "" {
			targetContext.Name = trigger.FireDefn.Name
		}
		return targetContext
	}
	targetContext := *trigger.TargetContext
	if targetContext.ID == "" {
		targetContext.ID = lwfm.NewJobContext().ID
	}
	if targetContext.NativeID == "" {
		targetContext.NativeID = targetContext.ID
	}
	if targetContext.Name == "" {
		targetContext.Name = targetContext.ID
	}
	targetContext.ParentJobID = source.ID
	if source.OriginJobID != "" {
		targetContext.OriginJobID = source.OriginJobID
	} else {
		targetContext.OriginJobID = source.ID
	}
	targetContext.SiteName = trigger.TargetSiteName
	return targetContext
}
