package statuses

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gr80mcbr/lwfm"
	"github.com/gr80mcbr/lwfm/sentinel/internal/apimachinery"
	"github.com/stretchr/testify/require"
)

type passthroughFilter struct{}

func (p *passthroughFilter) Decorate(
	handle http.HandlerFunc,
) http.HandlerFunc {
	return handle
}

type fakeService struct {
	recordedJobID string
	recorded      *lwfm.JobStatus
	watched       *lwfm.Watch
}

func (f *fakeService) Record(
	_ context.Context,
	jobID string,
	status lwfm.JobStatus,
) (lwfm.Ack, error) {
	f.recordedJobID = jobID
	f.recorded = &status
	return lwfm.NewAck(time.Now().UTC().Truncate(time.Millisecond)), nil
}

func (f *fakeService) GetLatest(
	_ context.Context,
	jobID string,
) (lwfm.JobStatus, error) {
	if jobID == "bogus" {
		return lwfm.JobStatus{}, &lwfm.ErrNotFound{Type: "Job", ID: jobID}
	}
	return lwfm.NewJobStatus(
		lwfm.JobContext{ID: jobID},
		"RUNNING",
		nil,
	), nil
}

func (f *fakeService) GetHistory(
	_ context.Context,
	jobID string,
) (lwfm.JobStatusList, error) {
	statusList := lwfm.NewJobStatusList()
	statusList.Items = []lwfm.JobStatus{
		lwfm.NewJobStatus(lwfm.JobContext{ID: jobID}, "PENDING", nil),
		lwfm.NewJobStatus(lwfm.JobContext{ID: jobID}, "RUNNING", nil),
	}
	return statusList, nil
}

func (f *fakeService) ListLatest(
	context.Context,
) (lwfm.JobStatusSummaryMap, error) {
	summaryMap := lwfm.NewJobStatusSummaryMap()
	summaryMap.Items["some-job"] = lwfm.JobStatusSummary{
		JobID:  "some-job",
		Status: lwfm.StatusRunning,
	}
	return summaryMap, nil
}

func (f *fakeService) GetLineage(
	_ context.Context,
	jobID string,
) (lwfm.JobContextList, error) {
	if jobID == "bogus" {
		return lwfm.JobContextList{}, &lwfm.ErrNotFound{Type: "Job", ID: jobID}
	}
	lineage := lwfm.NewJobContextList()
	lineage.Items = []lwfm.JobContext{{ID: jobID}}
	return lineage, nil
}

func (f *fakeService) Watch(
	_ context.Context,
	watch lwfm.Watch,
) (lwfm.Ack, error) {
	f.watched = &watch
	return lwfm.NewAck(time.Now().UTC().Truncate(time.Millisecond)), nil
}

func newTestRouter(service Service) *mux.Router {
	router := mux.NewRouter()
	router.StrictSlash(true)
	NewEndpoints(
		&apimachinery.BaseEndpoints{
			TokenAuthFilter: &passthroughFilter{},
		},
		service,
	).Register(router)
	return router
}

func TestRecordEndpoint(t *testing.T) {
	service := &fakeService{}
	router := newTestRouter(service)

	jobContext := lwfm.NewJobContext()
	bodyBytes, err := json.Marshal(lwfm.NewJobStatus(jobContext, "R", nil))
	require.NoError(t, err)
	req, err := http.NewRequest(
		http.MethodPost,
		fmt.Sprintf("/v2/jobs/%s/statuses", jobContext.ID),
		bytes.NewBuffer(bodyBytes),
	)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	require.Equal(t, jobContext.ID, service.recordedJobID)
	require.NotNil(t, service.recorded)
	require.Equal(t, "R", service.recorded.NativeStatus)

	ack := lwfm.Ack{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ack))
	require.False(t, ack.Received.IsZero())
}

func TestRecordEndpointRejectsInvalidBody(t *testing.T) {
	service := &fakeService{}
	router := newTestRouter(service)

	// Native status is required
	req, err := http.NewRequest(
		http.MethodPost,
		"/v2/jobs/foo/statuses",
		bytes.NewBufferString(`{"jobContext": {"id": "foo"}}`),
	)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Nil(t, service.recorded)
}

func TestGetLatestEndpoint(t *testing.T) {
	router := newTestRouter(&fakeService{})

	req, err := http.NewRequest(http.MethodGet, "/v2/jobs/foo/status", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	status := lwfm.JobStatus{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	require.Equal(t, "foo", status.JobContext.ID)

	req, err = http.NewRequest(http.MethodGet, "/v2/jobs/bogus/status", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetHistoryEndpoint(t *testing.T) {
	router := newTestRouter(&fakeService{})

	req, err := http.NewRequest(http.MethodGet, "/v2/jobs/foo/statuses", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	statusList := lwfm.JobStatusList{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &statusList))
	require.Len(t, statusList.Items, 2)
}

func TestListLatestEndpoint(t *testing.T) {
	router := newTestRouter(&fakeService{})

	req, err := http.NewRequest(http.MethodGet, "/v2/statuses", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	summaryMap := lwfm.JobStatusSummaryMap{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summaryMap))
	require.Contains(t, summaryMap.Items, "some-job")
}

func TestGetLineageEndpoint(t *testing.T) {
	router := newTestRouter(&fakeService{})

	req, err := http.NewRequest(http.MethodGet, "/v2/jobs/foo/lineage", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	lineage := lwfm.JobContextList{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lineage))
	require.Len(t, lineage.Items, 1)

	req, err = http.NewRequest(http.MethodGet, "/v2/jobs/bogus/lineage", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWatchEndpoint(t *testing.T) {
	service := &fakeService{}
	router := newTestRouter(service)

	bodyBytes, err := json.Marshal(
		lwfm.NewWatch("foo", "", "", "12345", "perlmutter"),
	)
	require.NoError(t, err)
	req, err := http.NewRequest(
		http.MethodPost,
		"/v2/watches",
		bytes.NewBuffer(bodyBytes),
	)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, service.watched)
	require.Equal(t, "foo", service.watched.JobID)

	// A watch without a job id fails validation
	req, err = http.NewRequest(
		http.MethodPost,
		"/v2/watches",
		bytes.NewBufferString(`{"siteName": "perlmutter"}`),
	)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
