package drf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vilaca/profile-dashboard/internal/domain"
)

var (
	errMissingAccess  = errors.New(`missing "access" field`)
	errMissingResults = errors.New(`missing "results" field`)
)

// DRF API response types
type tokenResponse struct {
	Access json.RawMessage `json:"access"`
}

// profilesResponse is a DRF paginated envelope. Only the first page is used,
// so count/next/previous are not decoded.
type profilesResponse struct {
	Results json.RawMessage `json:"results"`
}

// wireProfile is the strict intermediate form of one record.
// Pointer fields distinguish absent (or null) from zero values.
type wireProfile struct {
	Name           *string `json:"name"`
	ScreenName     *string `json:"screen_name"`
	Description    *string `json:"description"`
	FollowersCount *int    `json:"followers_count"`
	FriendsCount   *int    `json:"friends_count"`
	StatusesCount  *int    `json:"statuses_count"`
}

// parseTokenResponse extracts the "access" string from a token response body.
func parseTokenResponse(body []byte) (domain.Token, error) {
	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	raw := bytes.TrimSpace(resp.Access)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", errMissingAccess
	}
	if raw[0] != '"' {
		return "", fmt.Errorf(`"access" is not a string: %s`, raw)
	}

	var access string
	if err := json.Unmarshal(raw, &access); err != nil {
		return "", fmt.Errorf(`failed to decode "access": %w`, err)
	}

	return domain.Token(access), nil
}

// extractResults returns the raw "results" array of a paginated response.
func extractResults(body []byte) (json.RawMessage, error) {
	var resp profilesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode profiles response: %w", err)
	}

	raw := bytes.TrimSpace(resp.Results)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errMissingResults
	}
	if raw[0] != '[' {
		return nil, fmt.Errorf(`"results" is not an array: %.40s`, raw)
	}

	return raw, nil
}

// decodeProfiles validates every element of results and converts them to domain models.
// The first invalid element fails the whole batch.
func decodeProfiles(results json.RawMessage) ([]domain.Profile, error) {
	var wire []wireProfile
	if err := json.Unmarshal(results, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}

	profiles := make([]domain.Profile, 0, len(wire))
	for i, w := range wire {
		profile, err := w.validate()
		if err != nil {
			return nil, fmt.Errorf("results[%d]: %w", i, err)
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// validate checks required fields and count ranges, then converts to domain model.
func (w wireProfile) validate() (domain.Profile, error) {
	switch {
	case w.Name == nil:
		return domain.Profile{}, errors.New(`missing "name"`)
	case w.ScreenName == nil:
		return domain.Profile{}, errors.New(`missing "screen_name"`)
	case w.Description == nil:
		return domain.Profile{}, errors.New(`missing "description"`)
	case w.FollowersCount == nil:
		return domain.Profile{}, errors.New(`missing "followers_count"`)
	case w.FriendsCount == nil:
		return domain.Profile{}, errors.New(`missing "friends_count"`)
	case w.StatusesCount == nil:
		return domain.Profile{}, errors.New(`missing "statuses_count"`)
	}

	if *w.FollowersCount < 0 || *w.FriendsCount < 0 || *w.StatusesCount < 0 {
		return domain.Profile{}, errors.New("negative count")
	}

	return domain.Profile{
		Name:           *w.Name,
		ScreenName:     *w.ScreenName,
		Description:    *w.Description,
		FollowersCount: *w.FollowersCount,
		FriendsCount:   *w.FriendsCount,
		StatusesCount:  *w.StatusesCount,
	}, nil
}
