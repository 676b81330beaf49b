package lwfm

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
)

// TriggersClient is the specialized client for managing triggers with the
// lwfm Job Status Sentinel.
type TriggersClient interface {
	// Register adds a new trigger to the sentinel's registry and returns a
	// reference carrying its server-assigned handler id.
	Register(ctx context.Context, trigger Trigger) (TriggerReference, error)
	// Unregister removes the trigger with the given handler id from the
	// registry. Unregistering an unknown handler id is not an error; the
	// result indicates whether anything was actually removed.
	Unregister(
		ctx context.Context,
		handlerID string,
	) (TriggerUnregisterResult, error)
	// UnregisterAll removes every registered trigger and returns a count of
	// how many were removed.
	UnregisterAll(ctx context.Context) (TriggerUnregisterAllResult, error)
	// List returns all registered triggers in registration order, oldest
	// first.
	List(ctx context.Context) (TriggerList, error)
}

type triggersClient struct {
	*baseClient
}

// NewTriggersClient returns a specialized client for managing triggers.
func NewTriggersClient(
	apiAddress string,
	apiToken string,
	allowInsecure bool,
) TriggersClient {
	return &triggersClient{
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

func (t *triggersClient) Register(
	_ context.Context,
	trigger Trigger,
) (TriggerReference, error) {
	triggerRef := TriggerReference{}
	return triggerRef, t.executeAPIRequest(
		apiRequest{
			method:      http.MethodPost,
			path:        "v2/triggers",
			authHeaders: t.bearerTokenAuthHeaders(),
			reqBodyObj:  trigger,
			successCode: http.StatusCreated,
			respObj:     &triggerRef,
		},
	)
}

func (t *triggersClient) Unregister(
	_ context.Context,
	handlerID string,
) (TriggerUnregisterResult, error) {
	result := TriggerUnregisterResult{}
	return result, t.executeAPIRequest(
		apiRequest{
			method:      http.MethodDelete,
			path:        fmt.Sprintf("v2/triggers/%s", handlerID),
			authHeaders: t.bearerTokenAuthHeaders(),
			successCode: http.StatusOK,
			respObj:     &result,
		},
	)
}

func (t *triggersClient) UnregisterAll(
	_ context.Context,
) (TriggerUnregisterAllResult, error) {
	result := TriggerUnregisterAllResult{}
	return result, t.executeAPIRequest(
		apiRequest{
			method:      http.MethodDelete,
			path:        "v2/triggers",
			authHeaders: t.bearerTokenAuthHeaders(),
			successCode: http.StatusOK,
			respObj:     &result,
		},
	)
}

func (t *triggersClient) List(_ context.Context) (TriggerList, error) {
	triggerList := TriggerList{}
	return triggerList, t.executeAPIRequest(
		apiRequest{
			method:      http.MethodGet,
			path:        "v2/triggers",
			authHeaders: t.bearerTokenAuthHeaders(),
			successCode: http.StatusOK,
			respObj:     &triggerList,
		},
	)
}
