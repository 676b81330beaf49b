package sites

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/gr80mcbr/lwfm"
	"github.com/pkg/errors"
)

// Submitter hands fired jobs to their target site's run driver.
type Submitter interface {
	// Submit asks the named site to instantiate a job from the given definition
	// under the given identity. It returns the first status the run driver
	// reports for the new job.
	Submit(
		ctx context.Context,
		siteName string,
		defn lwfm.JobDefn,
		jobContext lwfm.JobContext,
	) (lwfm.JobStatus, error)
}

type httpSubmitter struct {
	registry   Registry
	httpClient *http.Client
}

// NewHTTPSubmitter returns a Submitter that POSTs job submissions to each
// site's run driver over HTTP.
func NewHTTPSubmitter(registry Registry) Submitter {
	return &httpSubmitter{
		registry:   registry,
		httpClient: &http.Client{},
	}
}

func (h *httpSubmitter) Submit(
	ctx context.Context,
	siteName string,
	defn lwfm.JobDefn,
	jobContext lwfm.JobContext,
) (lwfm.JobStatus, error) {
	status := lwfm.JobStatus{}
	site, err := h.registry.Get(siteName)
	if err != nil {
		return status, err
	}

	submission := lwfm.NewJobSubmission(defn, jobContext)
	reqBodyBytes, err := json.Marshal(submission)
	if err != nil {
		return status, errors.Wrap(err, "error marshaling job submission")
	}
	req, err := http.NewRequest(
		http.MethodPost,
		fmt.Sprintf("%s/v2/site/jobs", site.Endpoint),
		bytes.NewBuffer(reqBodyBytes),
	)
	if err != nil {
		return status, errors.Wrapf(
			err,
			"error creating job submission request to site %q",
			site.Name,
		)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	if site.Token != "" {
		req.Header.Set(
			"Authorization",
			fmt.Sprintf("Bearer %s", site.Token),
		)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return status, errors.Wrapf(
			err,
			"error submitting job to site %q",
			site.Name,
		)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return status, errors.Errorf(
			"received %d from site %q",
			resp.StatusCode,
			site.Name,
		)
	}
	respBodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return status, errors.Wrapf(
			err,
			"error reading response from site %q",
			site.Name,
		)
	}
	if err := json.Unmarshal(respBodyBytes, &status); err != nil {
		return status, errors.Wrapf(
			err,
			"error unmarshaling response from site %q",
			site.Name,
		)
	}
	return status, nil
}
