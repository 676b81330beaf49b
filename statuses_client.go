package lwfm

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// StatusesClient is the specialized client for managing job statuses and
// lineage with the lwfm Job Status Sentinel.
type StatusesClient interface {
	// Emit reports a status observation for the job with the given id. The
	// returned Ack carries a warning for every matching trigger the sentinel
	// could not dispatch.
	Emit(ctx context.Context, jobID string, status JobStatus) (Ack, error)
	// GetLatest returns the most recent status observed for the job with the
	// given id.
	GetLatest(ctx context.Context, jobID string) (JobStatus, error)
	// GetHistory returns every status observed for the job with the given id,
	// oldest first.
	GetHistory(ctx context.Context, jobID string) (JobStatusList, error)
	// ListLatest returns a summary of the most recent status of every job the
	// sentinel knows about.
	ListLatest(ctx context.Context) (JobStatusSummaryMap, error)
	// GetLineage returns the chain of job identities that led to the job with
	// the given id, oldest ancestor first.
	GetLineage(ctx context.Context, jobID string) (JobContextList, error)
	// Watch asks the sentinel to track the given job until it reaches a
	// terminal status.
	Watch(ctx context.Context, watch Watch) (Ack, error)
	// WaitForTerminal polls the sentinel at the given interval until the job
	// with the given id reaches a terminal status, then returns that status.
	// It blocks until then or until the context is canceled.
	WaitForTerminal(
		ctx context.Context,
		jobID string,
		interval time.Duration,
	) (JobStatus, error)
}

type statusesClient struct {
	*baseClient
}

// NewStatusesClient returns a specialized client for managing job statuses
// and lineage.
func NewStatusesClient(
	apiAddress string,
	apiToken string,
	allowInsecure bool,
) StatusesClient {
	return &statusesClient{
		baseClient: &baseClient{
			apiAddress: apiAddress,
			apiToken:   apiToken,
			httpClient: &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{
						InsecureSkipVerify: allowInsecure,
					},
				},
			},
		},
	}
}

func (s *statusesClient) Emit(
	_ context.Context,
	jobID string,
	status JobStatus,
) (Ack, error) {
	ack := Ack{}
	return ack, s.executeAPIRequest(
		apiRequest{
			method:      http.MethodPost,
			path:        fmt.Sprintf("v2/jobs/%s/statuses", jobID),
			authHeaders: s.bearerTokenAuthHeaders(),
			reqBodyObj:  status,
			successCode: http.StatusOK,
			respObj:     &ack,
		},
	)
}

func (s *statusesClient) GetLatest(
	_ context.Context,
	jobID string,
) (JobStatus, error) {
	status := JobStatus{}
	return status, s.executeAPIRequest(
		apiRequest{
			method:      http.MethodGet,
			path:        fmt.Sprintf("v2/jobs/%s/status", jobID),
			authHeaders: s.bearerTokenAuthHeaders(),
			successCode: http.StatusOK,
			respObj:     &status,
		},
	)
}

func (s *statusesClient) GetHistory(
	_ context.Context,
	jobID string,
) (JobStatusList, error) {
	statusList := JobStatusList{}
	return statusList, s.executeAPIRequest(
		apiRequest{
			method:      http.MethodGet,
			path:        fmt.Sprintf("v2/jobs/%s/statuses", jobID),
			authHeaders: s.bearerTokenAuthHeaders(),
			successCode: http.StatusOK,
			respObj:     &statusList,
		},
	)
}

func (s *statusesClient) ListLatest(
	_ context.Context,
) (JobStatusSummaryMap, error) {
	summaryMap := JobStatusSummaryMap{}
	return summaryMap, s.executeAPIRequest(
		apiRequest{
			method:      http.MethodGet,
			path:        "v2/statuses",
			authHeaders: s.bearerTokenAuthHeaders(),
			successCode: http.StatusOK,
			respObj:     &summaryMap,
		},
	)
}

func (s *statusesClient) GetLineage(
	_ context.Context,
	jobID string,
) (JobContextList, error) {
	lineage := JobContextList{}
	return lineage, s.executeAPIRequest(
		apiRequest{
			method:      http.MethodGet,
			path:        fmt.Sprintf("v2/jobs/%s/lineage", jobID),
			authHeaders: s.bearerTokenAuthHeaders(),
			successCode: http.StatusOK,
			respObj:     &lineage,
		},
	)
}

func (s *statusesClient) Watch(
	_ context.Context,
	watch Watch,
) (Ack, error) {
	ack := Ack{}
	return ack, s.executeAPIRequest(
		apiRequest{
			method:      http.MethodPost,
			path:        "v2/watches",
			authHeaders: s.bearerTokenAuthHeaders(),
			reqBodyObj:  watch,
			successCode: http.StatusOK,
			respObj:     &ack,
		},
	)
}

func (s *statusesClient) WaitForTerminal(
	ctx context.Context,
	jobID string,
	interval time.Duration,
) (JobStatus, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		status, err := s.GetLatest(ctx, jobID)
		if err != nil {
			// The job may simply not have reported yet. Keep polling.
			if _, ok := errors.Cause(err).(*ErrNotFound); !ok {
				return status, err
			}
		} else if status.Status.IsTerminal() {
			return status, nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return JobStatus{}, ctx.Err()
		}
	}
}
