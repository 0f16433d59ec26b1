package drf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vilaca/profile-dashboard/internal/api"
	"github.com/vilaca/profile-dashboard/internal/domain"
)

// marshalJSON encodes request payloads. Replaced in tests to exercise the serialization path.
var marshalJSON = json.Marshal

// Client implements api.Client for a Django REST Framework backend.
// Follows Single Responsibility Principle - only handles DRF API communication.
type Client struct {
	base   *api.BaseClient
	logger api.Logger
}

// NewClient creates a new DRF client.
// Uses dependency injection for HTTPClient and Logger (IoC).
func NewClient(config api.ClientConfig, httpClient api.HTTPClient, logger api.Logger) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = domain.DefaultAPIBaseURL
	}
	if logger == nil {
		logger = discardLogger{}
	}

	return &Client{
		base:   api.NewBaseClient(baseURL, httpClient),
		logger: logger,
	}
}

// Authenticate posts the credentials to the token endpoint and returns the "access" token.
// The HTTP status is not inspected: bad credentials and malformed responses
// both surface as domain.MsgAuthShape.
func (c *Client) Authenticate(ctx context.Context, username, password string) (domain.Token, error) {
	payload, err := marshalJSON(domain.Credential{Username: username, Password: password})
	if err != nil {
		return "", domain.NewError(domain.KindSerialization, domain.MsgSerialization, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base.Endpoint(domain.TokenPath), bytes.NewReader(payload))
	if err != nil {
		return "", domain.NewError(domain.KindInvalidEndpoint, domain.MsgInvalidAuthEndpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.base.Do(req)
	if err != nil {
		return "", domain.NewError(domain.KindTransport, "Error: "+err.Error(), err)
	}

	token, err := parseTokenResponse(body)
	if err != nil {
		c.logger.Printf("token endpoint returned status %d: %v", status, err)
		return "", domain.NewError(domain.KindAuthShape, domain.MsgAuthShape, err)
	}

	return token, nil
}

// FetchProfiles retrieves the first page of profiles using token.
func (c *Client) FetchProfiles(ctx context.Context, token domain.Token) ([]domain.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.Endpoint(domain.ProfilesPath), nil)
	if err != nil {
		return nil, domain.NewError(domain.KindInvalidEndpoint, domain.MsgInvalidFetchEndpoint, err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, status, err := c.base.Do(req)
	if err != nil {
		return nil, domain.NewError(domain.KindTransport, err.Error(), err)
	}
	c.logger.Printf("profiles endpoint returned status %d", status)

	results, err := extractResults(body)
	if err != nil {
		return nil, domain.NewError(domain.KindFetchShape, domain.MsgFetchShape, err)
	}

	profiles, err := decodeProfiles(results)
	if err != nil {
		// Design smell kept for compatibility: a single invalid record empties
		// the whole batch and the user sees "no profiles" instead of an error.
		c.logger.Printf("[%s] failed to decode profiles, returning empty list: %v", domain.KindDecode, err)
		return []domain.Profile{}, nil
	}

	return profiles, nil
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...interface{}) {}
