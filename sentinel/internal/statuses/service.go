package statuses

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gr80mcbr/lwfm"
	"github.com/gr80mcbr/lwfm/sentinel/internal/metrics"
	"github.com/pkg/errors"
)

// Dispatcher evaluates a freshly recorded status against the trigger registry
// and fires whatever matches.
type Dispatcher interface {
	// Dispatch fires all triggers matching the given status. It returns one
	// warning per trigger that matched but could not be fired.
	Dispatch(ctx context.Context, status lwfm.JobStatus) ([]string, error)
}

// Service is the specialized interface for recording and querying JobStatuses.
// It's decoupled from underlying technology choices (e.g. data store, cache)
// to keep business logic reusable and consistent while the underlying tech
// stack remains free to change.
type Service interface {
	// Record accepts one status report for the given job: it canonicalizes the
	// native status, appends the observation to the job's history, and
	// evaluates it against the trigger registry. The returned Ack carries one
	// warning per trigger that matched but could not be fired. Retransmissions
	// of an already recorded report are acked without re-evaluation.
	Record(
		ctx context.Context,
		jobID string,
		status lwfm.JobStatus,
	) (lwfm.Ack, error)
	// GetLatest returns the observation with the most recent emit time for the
	// given job.
	GetLatest(ctx context.Context, jobID string) (lwfm.JobStatus, error)
	// GetHistory returns all of a job's observations ordered by emit time,
	// oldest first.
	GetHistory(ctx context.Context, jobID string) (lwfm.JobStatusList, error)
	// ListLatest returns a digest of the most recent observation of every job
	// the sentinel has ever heard from, keyed by job id.
	ListLatest(context.Context) (lwfm.JobStatusSummaryMap, error)
	// GetLineage returns the given job's ancestry, origin first, the job
	// itself last.
	GetLineage(ctx context.Context, jobID string) (lwfm.JobContextList, error)
	// Watch registers the given job's identity for tracking. The watch is
	// retired when a terminal status is recorded for the job.
	Watch(ctx context.Context, watch lwfm.Watch) (lwfm.Ack, error)
}

type service struct {
	store      Store
	cache      Cache
	dispatcher Dispatcher
	jobMusLock sync.Mutex
	jobMus     map[string]*sync.Mutex
}

// NewService returns a specialized interface for recording and querying
// JobStatuses. cache and dispatcher may each be nil, disabling the latest
// status cache and trigger evaluation respectively.
func NewService(store Store, cache Cache, dispatcher Dispatcher) Service {
	return &service{
		store:      store,
		cache:      cache,
		dispatcher: dispatcher,
		jobMus:     map[string]*sync.Mutex{},
	}
}

func (s *service) Record(
	ctx context.Context,
	jobID string,
	status lwfm.JobStatus,
) (lwfm.Ack, error) {
	ack := lwfm.Ack{}
	if status.JobContext.ID != jobID {
		return ack, lwfm.NewErrBadRequest(
			fmt.Sprintf(
				"Job id %q in the request path does not match job id %q in the "+
					"report.",
				jobID,
				status.JobContext.ID,
			),
		)
	}
	if status.NativeStatus == "" {
		return ack, lwfm.NewErrBadRequest(
			"A status report requires a native status.",
		)
	}

	// Observations of any single job apply one at a time, in arrival order.
	// Unrelated jobs proceed in parallel.
	mu := s.jobMutex(jobID)
	mu.Lock()
	defer mu.Unlock()

	defer func(start time.Time) {
		metrics.RecordDuration.Observe(time.Since(start).Seconds())
	}(time.Now())

	if status.JobContext.NativeID == "" {
		status.JobContext.NativeID = jobID
	}
	if status.JobContext.OriginJobID == "" {
		status.JobContext.OriginJobID = jobID
	}
	if status.JobContext.Name == "" {
		status.JobContext.Name = jobID
	}

	// Canonicalization is the sentinel's call, whatever the reporter may have
	// pre-filled. A native status missing from the map degrades to UNKNOWN
	// rather than being rejected; the observation is still history.
	statusMap := status.StatusMap
	if statusMap == nil {
		statusMap = lwfm.DefaultStatusMap()
	}
	canonical, ok := statusMap.Canonicalize(status.NativeStatus)
	if !ok {
		log.Printf(
			"job %q reported native status %q with no canonical mapping; "+
				"recording as %s",
			jobID,
			status.NativeStatus,
			lwfm.StatusUnknown,
		)
		metrics.StatusMappingMisses.Inc()
	}
	status.TypeMeta = lwfm.TypeMeta{
		APIVersion: lwfm.APIVersion,
		Kind:       "JobStatus",
	}
	status.Status = canonical
	status.StatusMap = statusMap
	if status.EmitTime.IsZero() {
		status.EmitTime = time.Now()
	}
	status.EmitTime = status.EmitTime.UTC().Truncate(time.Millisecond)
	status.ReceivedTime = time.Now().UTC().Truncate(time.Millisecond)

	// Identity goes in first so a failure can't leave history without lineage.
	// The upsert is idempotent, so a retried report just rewrites it.
	if err := s.store.UpsertContext(ctx, status.JobContext); err != nil {
		return ack, errors.Wrapf(
			err,
			"error storing identity of job %q",
			jobID,
		)
	}

	if err := s.store.CreateStatus(ctx, status); err != nil {
		if _, ok := errors.Cause(err).(*lwfm.ErrConflict); ok {
			// A retransmission. Ack it, but don't re-evaluate triggers: they
			// already saw this observation the first time around.
			log.Printf(
				"job %q re-reported status %q emitted at %s; not re-evaluating",
				jobID,
				status.NativeStatus,
				status.EmitTime.Format(time.RFC3339Nano),
			)
			return lwfm.NewAck(status.ReceivedTime), nil
		}
		return ack, errors.Wrapf(err, "error storing status of job %q", jobID)
	}

	metrics.StatusesReceived.WithLabelValues(string(canonical)).Inc()

	if canonical.IsTerminal() {
		if _, err := s.store.DeleteWatch(ctx, jobID); err != nil {
			log.Println(errors.Wrapf(err, "error retiring watch on job %q", jobID))
		}
	}

	ack = lwfm.NewAck(status.ReceivedTime)
	if s.dispatcher != nil {
		warnings, err := s.dispatcher.Dispatch(ctx, status)
		if err != nil {
			// The observation is durable; a registry fault only means triggers
			// went unevaluated. That's the reporter's to know, not a failure.
			log.Println(
				errors.Wrapf(err, "error evaluating triggers for job %q", jobID),
			)
			warnings = append(
				warnings,
				fmt.Sprintf("trigger evaluation for job %q failed: %v", jobID, err),
			)
		}
		ack.Warnings = warnings
	}

	if s.cache != nil {
		if err := s.cache.SetLatestStatus(ctx, status); err != nil {
			log.Println(
				errors.Wrapf(err, "error caching latest status of job %q", jobID),
			)
		}
	}

	return ack, nil
}

func (s *service) GetLatest(
	ctx context.Context,
	jobID string,
) (lwfm.JobStatus, error) {
	if s.cache != nil {
		status, ok, err := s.cache.GetLatestStatus(ctx, jobID)
		if err != nil {
			log.Println(
				errors.Wrapf(err, "error reading cached status of job %q", jobID),
			)
		} else if ok {
			return status, nil
		}
	}
	status, err := s.store.GetLatestStatus(ctx, jobID)
	if err != nil {
		return status, errors.Wrapf(
			err,
			"error retrieving latest status of job %q from store",
			jobID,
		)
	}
	if s.cache != nil {
		if err := s.cache.SetLatestStatus(ctx, status); err != nil {
			log.Println(
				errors.Wrapf(err, "error caching latest status of job %q", jobID),
			)
		}
	}
	return status, nil
}

func (s *service) GetHistory(
	ctx context.Context,
	jobID string,
) (lwfm.JobStatusList, error) {
	statusList, err := s.store.GetStatusHistory(ctx, jobID)
	if err != nil {
		return statusList, errors.Wrapf(
			err,
			"error retrieving status history of job %q from store",
			jobID,
		)
	}
	return statusList, nil
}

func (s *service) ListLatest(
	ctx context.Context,
) (lwfm.JobStatusSummaryMap, error) {
	summaryMap := lwfm.NewJobStatusSummaryMap()
	statusList, err := s.store.ListLatestStatuses(ctx)
	if err != nil {
		return summaryMap, errors.Wrap(
			err,
			"error retrieving latest statuses from store",
		)
	}
	for _, status := range statusList.Items {
		summaryMap.Items[status.JobContext.ID] = status.Summary()
	}
	return summaryMap, nil
}

func (s *service) GetLineage(
	ctx context.Context,
	jobID string,
) (lwfm.JobContextList, error) {
	lineage := lwfm.NewJobContextList()
	jobContext, err := s.store.GetContext(ctx, jobID)
	if err != nil {
		return lineage, errors.Wrapf(
			err,
			"error retrieving identity of job %q from store",
			jobID,
		)
	}
	// Walk parent links rootward. The visited set guards against cycles in
	// hand-reported identities.
	visited := map[string]bool{jobID: true}
	chain := []lwfm.JobContext{jobContext}
	current := jobContext
	for current.ParentJobID != "" && !visited[current.ParentJobID] {
		visited[current.ParentJobID] = true
		parent, err := s.store.GetContext(ctx, current.ParentJobID)
		if err != nil {
			if _, ok := errors.Cause(err).(*lwfm.ErrNotFound); ok {
				// The chain ends at the oldest identity the sentinel has seen
				break
			}
			return lineage, errors.Wrapf(
				err,
				"error retrieving identity of job %q from store",
				current.ParentJobID,
			)
		}
		chain = append(chain, parent)
		current = parent
	}
	// Oldest ancestor first, the requested job last
	for i := len(chain) - 1; i >= 0; i-- {
		lineage.Items = append(lineage.Items, chain[i])
	}
	return lineage, nil
}

func (s *service) Watch(
	ctx context.Context,
	watch lwfm.Watch,
) (lwfm.Ack, error) {
	ack := lwfm.Ack{}
	if watch.JobID == "" {
		return ack, lwfm.NewErrBadRequest("A watch requires a job id.")
	}
	watch.TypeMeta = lwfm.TypeMeta{
		APIVersion: lwfm.APIVersion,
		Kind:       "Watch",
	}
	if err := s.store.UpsertContext(ctx, watch.JobContext()); err != nil {
		return ack, errors.Wrapf(
			err,
			"error storing identity of job %q",
			watch.JobID,
		)
	}
	if err := s.store.UpsertWatch(ctx, watch); err != nil {
		return ack, errors.Wrapf(
			err,
			"error storing watch on job %q",
			watch.JobID,
		)
	}
	return lwfm.NewAck(time.Now().UTC().Truncate(time.Millisecond)), nil
}

// jobMutex returns the mutex serializing observations of the given job.
// TODO: Mutexes are never reaped, so a sentinel fed many short-lived jobs
// grows this map until restart.
func (s *service) jobMutex(jobID string) *sync.Mutex {
	s.jobMusLock.Lock()
	defer s.jobMusLock.Unlock()
	mu, ok := s.jobMus[jobID]
	if !ok {
		mu = &sync.Mutex{}
		s.jobMus[jobID] = mu
	}
	return mu
}
