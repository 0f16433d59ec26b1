package api

import (
	"context"

	"github.com/vilaca/profile-dashboard/internal/domain"
)

// Authenticator exchanges a credential pair for a bearer token.
// This follows Interface Segregation Principle - small, focused interface.
type Authenticator interface {
	// Authenticate returns the access token issued for username/password.
	// Errors are *domain.Error values whose message is safe to show to users.
	Authenticate(ctx context.Context, username, password string) (domain.Token, error)
}

// ProfileFetcher retrieves profiles using a bearer token.
type ProfileFetcher interface {
	// FetchProfiles returns the first page of profiles visible to token.
	FetchProfiles(ctx context.Context, token domain.Token) ([]domain.Profile, error)
}

// Client combines both stages of the authenticated fetch.
// Allows dependency inversion - consumers depend on this interface, not concrete implementations.
type Client interface {
	Authenticator
	ProfileFetcher
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL string
}
