package lwfm

// Client is the root of a tree of more specialized sentinel API clients.
type Client interface {
	// Statuses returns a specialized client for job status and lineage
	// management.
	Statuses() StatusesClient
	// Triggers returns a specialized client for trigger management.
	Triggers() TriggersClient
}

type client struct {
	statusesClient StatusesClient
	triggersClient TriggersClient
}

// NewClient returns a sentinel API client.
func NewClient(apiAddress, apiToken string, allowInsecure bool) Client {
	return &client{
		statusesClient: NewStatusesClient(apiAddress, apiToken, allowInsecure),
		triggersClient: NewTriggersClient(apiAddress, apiToken, allowInsecure),
	}
}

func (c *client) Statuses() StatusesClient {
	return c.statusesClient
}

func (c *client) Triggers() TriggersClient {
	return c.triggersClient
}
