package api

import (
	"io"
	"net/http"
	"strings"
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
// Follows Interface Segregation Principle.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Logger interface for diagnostic output (Interface Segregation Principle).
type Logger interface {
	Printf(format string, v ...interface{})
}

// BaseClient contains common fields and functionality for all API clients.
// Follows DRY principle by extracting shared code.
type BaseClient struct {
	BaseURL    string
	HTTPClient HTTPClient
}

// NewBaseClient creates a new base client. Trailing slashes are trimmed from baseURL.
func NewBaseClient(baseURL string, httpClient HTTPClient) *BaseClient {
	return &BaseClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: httpClient,
	}
}

// Endpoint returns the absolute URL for an API path such as "/api/token/".
func (c *BaseClient) Endpoint(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path
}

// Do sends req and reads the whole response body.
// Any status code is returned as-is; only transport failures produce an error,
// and that error is returned unwrapped so its message reaches the user intact.
func (c *BaseClient) Do(req *http.Request) ([]byte, int, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}
