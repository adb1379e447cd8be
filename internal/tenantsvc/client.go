// Package tenantsvc is an HTTP client for a remote tenant directory, used
// when the gate runs at the edge and the authoritative store is not directly
// reachable.
package tenantsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Sentinel errors for directory client failures.
var (
	ErrDirectoryUnreachable = errors.New("tenant directory unreachable")
	ErrDirectoryTimeout     = errors.New("tenant directory timeout")
	ErrDirectoryError       = errors.New("tenant directory error")
)

// Client is the interface for querying the tenant directory.
type Client interface {
	Validate(ctx context.Context, slug string) (*Validation, error)
	Features(ctx context.Context, slug string) ([]string, error)
}

// Validation is the directory's answer for a single slug. Exists=false means
// the slug is definitively unknown (not a transport failure).
type Validation struct {
	Exists         bool      `json:"exists"`
	Active         bool      `json:"active"`
	RestaurantID   string    `json:"restaurantId"`
	RestaurantName string    `json:"restaurantName"`
	Plan           string    `json:"plan"`
	OwnerEmail     string    `json:"ownerEmail"`
	CreatedAt      time.Time `json:"createdAt"`
}

// HTTPClient implements Client against the directory's REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a new directory client.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Validate(ctx context.Context, slug string) (*Validation, error) {
	u := fmt.Sprintf("%s/api/subdomains/validate/%s", c.baseURL, url.PathEscape(slug))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &Validation{Exists: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrDirectoryError, resp.StatusCode)
	}

	var v Validation
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding validation response: %w", err)
	}
	return &v, nil
}

func (c *HTTPClient) Features(ctx context.Context, slug string) ([]string, error) {
	u := fmt.Sprintf("%s/api/restaurants/%s/features", c.baseURL, url.PathEscape(slug))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrDirectoryError, resp.StatusCode)
	}

	var body struct {
		Features []string `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding features response: %w", err)
	}
	if body.Features == nil {
		body.Features = []string{}
	}
	return body.Features, nil
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrDirectoryTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrDirectoryTimeout, err)
		}
	}

	return fmt.Errorf("%w: %v", ErrDirectoryUnreachable, err)
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
