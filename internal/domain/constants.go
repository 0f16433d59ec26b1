package domain

// Default upstream locations.
const (
	// DefaultAPIBaseURL is the DRF backend the dashboard talks to by default.
	DefaultAPIBaseURL = "https://bankindonesia-backend.herokuapp.com"
	// TokenPath is the token issuance endpoint.
	TokenPath = "/api/token/"
	// ProfilesPath is the profile list endpoint.
	ProfilesPath = "/api/twitter-profiles/"
)
