// Package users provides the client for the external user validation service.
package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client performs user existence lookups against the user service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a client with sane defaults.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ValidateUser reports whether the user id is known to the user service.
// The endpoint returns a bare JSON boolean.
func (c *Client) ValidateUser(ctx context.Context, userID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/v1/users/%s/validate", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("user validation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("user validation request: unexpected status %d", resp.StatusCode)
	}

	var valid bool
	if err := json.NewDecoder(resp.Body).Decode(&valid); err != nil {
		return false, fmt.Errorf("user validation response: %w", err)
	}
	return valid, nil
}
