package search

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Client triggers the external skill-index rebuild. The endpoint is an
// idempotent POST guarded by a shared secret; this subsystem never retries
// a failed rebuild.
type Client struct {
	url    string
	secret string
	http   *http.Client
}

func NewClient(url, secret string) *Client {
	return &Client{
		url:    url,
		secret: secret,
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Rebuild(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, nil)
	if err != nil {
		return err
	}
	if c.secret != "" {
		req.Header.Set("X-Rebuild-Token", c.secret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("index rebuild status %d", resp.StatusCode)
	}
	return nil
}
