package lwfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewStatusesClient(t *testing.T) {
	client := NewStatusesClient(
		testAPIAddress,
		testAPIToken,
		testClientAllowInsecure,
	)
	require.IsType(t, &statusesClient{}, client)
	requireBaseClient(t, client.(*statusesClient).baseClient)
}

func TestStatusesClientEmit(t *testing.T) {
	jobContext := NewJobContext()
	testAck := NewAck(time.Now().UTC().Truncate(time.Millisecond))
	testAck.Warnings = []string{"one trigger was not dispatched"}
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(
					t,
					fmt.Sprintf("/v2/jobs/%s/statuses", jobContext.ID),
					r.URL.Path,
				)
				require.Contains(t, r.Header.Get("Authorization"), "Bearer")
				status := JobStatus{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&status))
				require.Equal(t, "R", status.NativeStatus)
				bodyBytes, err := json.Marshal(testAck)
				require.NoError(t, err)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	client := NewStatusesClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	ack, err := client.Emit(
		context.Background(),
		jobContext.ID,
		NewJobStatus(jobContext, "R", nil),
	)
	require.NoError(t, err)
	require.Equal(t, testAck, ack)
}

func TestStatusesClientGetLatest(t *testing.T) {
	testStatus := NewJobStatus(NewJobContext(), "COMPLETE", nil)
	testStatus.Status = StatusComplete
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(
					t,
					fmt.Sprintf("/v2/jobs/%s/status", testStatus.JobContext.ID),
					r.URL.Path,
				)
				require.Contains(t, r.Header.Get("Authorization"), "Bearer")
				bodyBytes, err := json.Marshal(testStatus)
				require.NoError(t, err)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	client := NewStatusesClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	status, err := client.GetLatest(
		context.Background(),
		testStatus.JobContext.ID,
	)
	require.NoError(t, err)
	require.Equal(t, testStatus.JobContext.ID, status.JobContext.ID)
	require.Equal(t, StatusComplete, status.Status)
}

func TestStatusesClientGetLatestNotFound(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				bodyBytes, err := json.Marshal(NewErrNotFound("Job", "nope"))
				require.NoError(t, err)
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	client := NewStatusesClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	_, err := client.GetLatest(context.Background(), "nope")
	require.Error(t, err)
	require.IsType(t, &ErrNotFound{}, errors.Cause(err))
}

func TestStatusesClientGetHistory(t *testing.T) {
	jobContext := NewJobContext()
	testStatusList := NewJobStatusList()
	testStatusList.Items = []JobStatus{
		NewJobStatus(jobContext, "PENDING", nil),
		NewJobStatus(jobContext, "RUNNING", nil),
	}
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(
					t,
					fmt.Sprintf("/v2/jobs/%s/statuses", jobContext.ID),
					r.URL.Path,
				)
				require.Contains(t, r.Header.Get("Authorization"), "Bearer")
				bodyBytes, err := json.Marshal(testStatusList)
				require.NoError(t, err)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	client := NewStatusesClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	statusList, err := client.GetHistory(context.Background(), jobContext.ID)
	require.NoError(t, err)
	require.Len(t, statusList.Items, 2)
	require.Equal(t, "PENDING", statusList.Items[0].NativeStatus)
}

func TestStatusesClientListLatest(t *testing.T) {
	testSummaryMap := NewJobStatusSummaryMap()
	testSummaryMap.Items["some-job"] = JobStatusSummary{
		JobID:  "some-job",
		Status: StatusRunning,
	}
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(t, "/v2/statuses", r.URL.Path)
				require.Contains(t, r.Header.Get("Authorization"), "Bearer")
				bodyBytes, err := json.Marshal(testSummaryMap)
				require.NoError(t, err)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	client := NewStatusesClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	summaryMap, err := client.ListLatest(context.Background())
	require.NoError(t, err)
	require.Contains(t, summaryMap.Items, "some-job")
	require.Equal(t, StatusRunning, summaryMap.Items["some-job"].Status)
}

func TestStatusesClientGetLineage(t *testing.T) {
	testLineage := NewJobContextList()
	testLineage.Items = []JobContext{
		{ID: "grandparent"},
		{ID: "parent"},
		{ID: "child"},
	}
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(t, "/v2/jobs/child/lineage", r.URL.Path)
				require.Contains(t, r.Header.Get("Authorization"), "Bearer")
				bodyBytes, err := json.Marshal(testLineage)
				require.NoError(t, err)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	client := NewStatusesClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	lineage, err := client.GetLineage(context.Background(), "child")
	require.NoError(t, err)
	require.Len(t, lineage.Items, 3)
	require.Equal(t, "grandparent", lineage.Items[0].ID)
}

func TestStatusesClientWatch(t *testing.T) {
	testAck := NewAck(time.Now().UTC().Truncate(time.Millisecond))
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/v2/watches", r.URL.Path)
				require.Contains(t, r.Header.Get("Authorization"), "Bearer")
				watch := Watch{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&watch))
				require.Equal(t, "foo", watch.JobID)
				bodyBytes, err := json.Marshal(testAck)
				require.NoError(t, err)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	client := NewStatusesClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	ack, err := client.Watch(
		context.Background(),
		NewWatch("foo", "", "", "", "perlmutter"),
	)
	require.NoError(t, err)
	require.Equal(t, testAck, ack)
}

func TestStatusesClientWaitForTerminal(t *testing.T) {
	jobContext := NewJobContext()
	var polls int64
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				status := NewJobStatus(jobContext, "RUNNING", nil)
				status.Status = StatusRunning
				// Not found on the first poll, running on the second, complete
				// after that
				switch atomic.AddInt64(&polls, 1) {
				case 1:
					bodyBytes, err := json.Marshal(NewErrNotFound("Job", jobContext.ID))
					require.NoError(t, err)
					w.WriteHeader(http.StatusNotFound)
					fmt.Fprintln(w, string(bodyBytes))
					return
				case 2:
				default:
					status.NativeStatus = "COMPLETE"
					status.Status = StatusComplete
				}
				bodyBytes, err := json.Marshal(status)
				require.NoError(t, err)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	client := NewStatusesClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	status, err := client.WaitForTerminal(
		context.Background(),
		jobContext.ID,
		time.Millisecond,
	)
	require.NoError(t, err)
	require.Equal(t, StatusComplete, status.Status)
	require.GreaterOrEqual(t, atomic.LoadInt64(&polls), int64(3))
}

func TestStatusesClientWaitForTerminalCanceled(t *testing.T) {
	jobContext := NewJobContext()
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				status := NewJobStatus(jobContext, "RUNNING", nil)
				status.Status = StatusRunning
				bodyBytes, err := json.Marshal(status)
				require.NoError(t, err)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	client := NewStatusesClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	ctx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Millisecond,
	)
	defer cancel()
	_, err := client.WaitForTerminal(ctx, jobContext.ID, time.Millisecond)
	require.Error(t, err)
	require.Equal(t, context.DeadlineExceeded, err)
}
