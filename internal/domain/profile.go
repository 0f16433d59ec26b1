package domain

// Profile represents a social account profile returned by the DRF API.
// Follows Single Responsibility - only holds profile data.
type Profile struct {
	Name           string `json:"name"`
	ScreenName     string `json:"screen_name"`
	Description    string `json:"description"`
	FollowersCount int    `json:"followers_count"` // always >= 0
	FriendsCount   int    `json:"friends_count"`   // always >= 0
	StatusesCount  int    `json:"statuses_count"`  // always >= 0
}
