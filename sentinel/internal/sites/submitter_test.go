package sites

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gr80mcbr/lwfm"
	"github.com/stretchr/testify/require"
)

func TestHTTPSubmitterSubmit(t *testing.T) {
	testDefn := lwfm.JobDefn{
		Name:           "post-process",
		EntryPointPath: "/apps/post.sh",
	}
	testJobContext := lwfm.NewJobContext()
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/v2/site/jobs", r.URL.Path)
				require.Equal(t, "Bearer opensesame", r.Header.Get("Authorization"))
				submission := lwfm.JobSubmission{}
				err := json.NewDecoder(r.Body).Decode(&submission)
				require.NoError(t, err)
				require.Equal(t, testDefn, submission.Defn)
				require.Equal(t, testJobContext.ID, submission.JobContext.ID)
				bodyBytes, err := json.Marshal(
					lwfm.NewJobStatus(submission.JobContext, "PENDING", nil),
				)
				require.NoError(t, err)
				fmt.Fprintln(w, string(bodyBytes))
			},
		),
	)
	defer server.Close()
	submitter := NewHTTPSubmitter(
		NewRegistry(
			[]Site{
				{
					Name:     "perlmutter",
					Endpoint: server.URL,
					Token:    "opensesame",
				},
			},
		),
	)
	status, err := submitter.Submit(
		context.Background(),
		"perlmutter",
		testDefn,
		testJobContext,
	)
	require.NoError(t, err)
	require.Equal(t, testJobContext.ID, status.JobContext.ID)
	require.Equal(t, lwfm.StatusPending, status.Status)
}

func TestHTTPSubmitterSubmitSiteError(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		),
	)
	defer server.Close()
	submitter := NewHTTPSubmitter(
		NewRegistry(
			[]Site{
				{
					Name:     "perlmutter",
					Endpoint: server.URL,
				},
			},
		),
	)
	_, err := submitter.Submit(
		context.Background(),
		"perlmutter",
		lwfm.JobDefn{EntryPointPath: "/apps/post.sh"},
		lwfm.NewJobContext(),
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
}

func TestHTTPSubmitterSubmitUnknownSite(t *testing.T) {
	submitter := NewHTTPSubmitter(NewRegistry(nil))
	_, err := submitter.Submit(
		context.Background(),
		"bogus",
		lwfm.JobDefn{EntryPointPath: "/apps/post.sh"},
		lwfm.NewJobContext(),
	)
	require.Error(t, err)
}
