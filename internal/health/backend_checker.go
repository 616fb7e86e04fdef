package health

import (
	"context"
	"net/http"
	"time"
)

// BackendChecker verifies that the case management API answers HTTP.
type BackendChecker struct {
	url    string
	client *http.Client
}

// NewBackendChecker probes url with client, or http.DefaultClient when client
// is nil.
func NewBackendChecker(url string, client *http.Client) *BackendChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &BackendChecker{url: url, client: client}
}

func (c *BackendChecker) Name() string {
	return "backend-api"
}

// Check treats any response below 500 as healthy; the base URL itself is
// not a resource and usually answers 404. An unreachable or failing backend
// is degraded because pages still render without it.
func (c *BackendChecker) Check(ctx context.Context) *Result {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Unhealthy("invalid backend URL").
			WithDetail("url", c.url).
			WithDetail("error", err.Error())
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Degraded("backend unreachable").
			WithDetail("url", c.url).
			WithDetail("error", err.Error()).
			WithLatency(time.Since(start))
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Degraded("backend returned "+resp.Status).
			WithDetail("url", c.url).
			WithDetail("status_code", resp.StatusCode).
			WithLatency(time.Since(start))
	}
	return Healthy("backend reachable").
		WithDetail("url", c.url).
		WithDetail("status_code", resp.StatusCode).
		WithLatency(time.Since(start))
}
