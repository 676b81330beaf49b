package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gr80mcbr/lwfm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeTriggersStore struct {
	mu       sync.Mutex
	triggers []lwfm.Trigger
}

func (f *fakeTriggersStore) Create(
	_ context.Context,
	trigger lwfm.Trigger,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, trigger)
	return nil
}

func (f *fakeTriggersStore) List(context.Context) (lwfm.TriggerList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	triggerList := lwfm.NewTriggerList()
	triggerList.Items = append(triggerList.Items, f.triggers...)
	return triggerList, nil
}

func (f *fakeTriggersStore) ListBySourceJob(
	_ context.Context,
	jobID string,
) (lwfm.TriggerList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	triggerList := lwfm.NewTriggerList()
	for _, trigger := range f.triggers {
		if trigger.SourceJobID == jobID {
			triggerList.Items = append(triggerList.Items, trigger)
		}
	}
	return triggerList, nil
}

func (f *fakeTriggersStore) Delete(
	_ context.Context,
	handlerID string,
) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, trigger := range f.triggers {
		if trigger.HandlerID == handlerID {
			f.triggers = append(f.triggers[:i], f.triggers[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTriggersStore) DeleteAll(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := int64(len(f.triggers))
	f.triggers = nil
	return count, nil
}

func (f *fakeTriggersStore) Claim(
	ctx context.Context,
	handlerID string,
) (bool, error) {
	return f.Delete(ctx, handlerID)
}

type submission struct {
	siteName   string
	defn       lwfm.JobDefn
	jobContext lwfm.JobContext
}

type fakeSubmitter struct {
	mu          sync.Mutex
	submissions []submission
	err         error
}

func (f *fakeSubmitter) Submit(
	_ context.Context,
	siteName string,
	defn lwfm.JobDefn,
	jobContext lwfm.JobContext,
) (lwfm.JobStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return lwfm.JobStatus{}, f.err
	}
	f.submissions = append(
		f.submissions,
		submission{
			siteName:   siteName,
			defn:       defn,
			jobContext: jobContext,
		},
	)
	return lwfm.NewJobStatus(jobContext, "PENDING", nil), nil
}

func testTrigger(
	handlerID string,
	sourceJobID string,
	awaitedStatus lwfm.CanonicalStatus,
) lwfm.Trigger {
	trigger := lwfm.NewTrigger(
		sourceJobID,
		"perlmutter",
		awaitedStatus,
		lwfm.JobDefn{EntryPointPath: "/apps/post.sh"},
		"cori",
	)
	trigger.HandlerID = handlerID
	now := time.Now().UTC().Truncate(time.Millisecond)
	trigger.Created = &now
	return trigger
}

func testStatus(
	jobContext lwfm.JobContext,
	status lwfm.CanonicalStatus,
) lwfm.JobStatus {
	jobStatus := lwfm.NewJobStatus(jobContext, string(status), nil)
	jobStatus.Status = status
	return jobStatus
}

func TestDispatchFiresOneShotTriggerExactlyOnce(t *testing.T) {
	store := &fakeTriggersStore{}
	submitter := &fakeSubmitter{}
	dispatcher := NewDispatcher(store, submitter, time.Second)
	sourceContext := lwfm.NewJobContext()
	err := store.Create(
		context.Background(),
		testTrigger("trigger-1", sourceContext.ID, lwfm.StatusComplete),
	)
	require.NoError(t, err)

	warnings, err := dispatcher.Dispatch(
		context.Background(),
		testStatus(sourceContext, lwfm.StatusComplete),
	)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, submitter.submissions, 1)
	// The trigger is consumed
	require.Empty(t, store.triggers)

	// A repeat observation of the same status fires nothing
	warnings, err = dispatcher.Dispatch(
		context.Background(),
		testStatus(sourceContext, lwfm.StatusComplete),
	)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, submitter.submissions, 1)
}

func TestDispatchLeavesRepeatableTriggerRegistered(t *testing.T) {
	store := &fakeTriggersStore{}
	submitter := &fakeSubmitter{}
	dispatcher := NewDispatcher(store, submitter, time.Second)
	sourceContext := lwfm.NewJobContext()
	err := store.Create(
		context.Background(),
		testTrigger("trigger-1", sourceContext.ID, lwfm.StatusInfo),
	)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		warnings, err := dispatcher.Dispatch(
			context.Background(),
			testStatus(sourceContext, lwfm.StatusInfo),
		)
		require.NoError(t, err)
		require.Empty(t, warnings)
	}
	require.Len(t, submitter.submissions, 3)
	require.Len(t, store.triggers, 1)
}

func TestDispatchIgnoresNonMatchingTriggers(t *testing.T) {
	store := &fakeTriggersStore{}
	submitter := &fakeSubmitter{}
	dispatcher := NewDispatcher(store, submitter, time.Second)
	sourceContext := lwfm.NewJobContext()
	err := store.Create(
		context.Background(),
		testTrigger("trigger-1", sourceContext.ID, lwfm.StatusComplete),
	)
	require.NoError(t, err)
	err = store.Create(
		context.Background(),
		testTrigger("trigger-2", "some-other-job", lwfm.StatusRunning),
	)
	require.NoError(t, err)

	warnings, err := dispatcher.Dispatch(
		context.Background(),
		testStatus(sourceContext, lwfm.StatusRunning),
	)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Empty(t, submitter.submissions)
	require.Len(t, store.triggers, 2)
}

func TestDispatchReportsSubmissionFailureAsWarning(t *testing.T) {
	store := &fakeTriggersStore{}
	submitter := &fakeSubmitter{
		err: errors.New("site unreachable"),
	}
	dispatcher := NewDispatcher(store, submitter, time.Second)
	sourceContext := lwfm.NewJobContext()
	err := store.Create(
		context.Background(),
		testTrigger("trigger-1", sourceContext.ID, lwfm.StatusComplete),
	)
	require.NoError(t, err)

	warnings, err := dispatcher.Dispatch(
		context.Background(),
		testStatus(sourceContext, lwfm.StatusComplete),
	)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "trigger-1")
	require.Contains(t, warnings[0], "site unreachable")
	// The claim stands even though the dispatch failed
	require.Empty(t, store.triggers)
}

func TestDispatchChainsDefaultTargetContext(t *testing.T) {
	store := &fakeTriggersStore{}
	submitter := &fakeSubmitter{}
	dispatcher := NewDispatcher(store, submitter, time.Second)
	sourceContext := lwfm.NewJobContext()
	sourceContext.ParentJobID = "grandparent"
	sourceContext.OriginJobID = "origin"
	err := store.Create(
		context.Background(),
		testTrigger("trigger-1", sourceContext.ID, lwfm.StatusComplete),
	)
	require.NoError(t, err)

	_, err = dispatcher.Dispatch(
		context.Background(),
		testStatus(sourceContext, lwfm.StatusComplete),
	)
	require.NoError(t, err)
	require.Len(t, submitter.submissions, 1)
	fired := submitter.submissions[0].jobContext
	require.NotEmpty(t, fired.ID)
	require.NotEqual(t, sourceContext.ID, fired.ID)
	require.Equal(t, sourceContext.ID, fired.ParentJobID)
	require.Equal(t, "origin", fired.OriginJobID)
	require.Equal(t, "cori", fired.SiteName)
}

func TestDispatchRestampsSuppliedTargetContext(t *testing.T) {
	store := &fakeTriggersStore{}
	submitter := &fakeSubmitter{}
	dispatcher := NewDispatcher(store, submitter, time.Second)
	sourceContext := lwfm.NewJobContext()
	trigger := testTrigger("trigger-1", sourceContext.ID, lwfm.StatusComplete)
	trigger.TargetContext = &lwfm.JobContext{
		ID:          "chosen-id",
		ParentJobID: "a-lie",
		OriginJobID: "another-lie",
		Group:       "astro",
	}
	err := store.Create(context.Background(), trigger)
	require.NoError(t, err)

	_, err = dispatcher.Dispatch(
		context.Background(),
		testStatus(sourceContext, lwfm.StatusComplete),
	)
	require.NoError(t, err)
	require.Len(t, submitter.submissions, 1)
	fired := submitter.submissions[0].jobContext
	require.Equal(t, "chosen-id", fired.ID)
	require.Equal(t, "astro", fired.Group)
	// Lineage fields are always derived from the source job
	require.Equal(t, sourceContext.ID, fired.ParentJobID)
	require.Equal(t, sourceContext.ID, fired.OriginJobID)
	require.Equal(t, "cori", fired.SiteName)
}

func TestDispatchFiresMultipleMatchesInRegistrationOrder(t *testing.T) {
	store := &fakeTriggersStore{}
	submitter := &fakeSubmitter{
		err: errors.New("site unreachable"),
	}
	dispatcher := NewDispatcher(store, submitter, time.Second)
	sourceContext := lwfm.NewJobContext()
	for _, handlerID := range []string{"trigger-1", "trigger-2", "trigger-3"} {
		err := store.Create(
			context.Background(),
			testTrigger(handlerID, sourceContext.ID, lwfm.StatusFailed),
		)
		require.NoError(t, err)
	}

	warnings, err := dispatcher.Dispatch(
		context.Background(),
		testStatus(sourceContext, lwfm.StatusFailed),
	)
	require.NoError(t, err)
	require.Len(t, warnings, 3)
	// Warnings follow registration order even though dispatches run
	// concurrently
	require.Contains(t, warnings[0], "trigger-1")
	require.Contains(t, warnings[1], "trigger-2")
	require.Contains(t, warnings[2], "trigger-3")
}
