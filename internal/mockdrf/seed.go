package mockdrf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vilaca/profile-dashboard/internal/domain"
)

// User is an account the mock backend accepts.
type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SeedProfile is a profile as written in a seed file.
type SeedProfile struct {
	Name           string `yaml:"name"`
	ScreenName     string `yaml:"screen_name"`
	Description    string `yaml:"description"`
	FollowersCount int    `yaml:"followers_count"`
	FriendsCount   int    `yaml:"friends_count"`
	StatusesCount  int    `yaml:"statuses_count"`
}

// Seed is the data served by the mock backend.
type Seed struct {
	Users    []User        `yaml:"users"`
	Profiles []SeedProfile `yaml:"profiles"`
}

// DefaultSeed returns the built-in accounts and profiles.
func DefaultSeed() Seed {
	return Seed{
		Users: []User{
			{Username: "alice", Password: "secret"},
			{Username: "demo", Password: "demo"},
		},
		Profiles: []SeedProfile{
			{Name: "Go", ScreenName: "golang", Description: "The Go Programming Language", FollowersCount: 250000, FriendsCount: 12, StatusesCount: 4200},
			{Name: "Django", ScreenName: "djangoproject", Description: "The web framework for perfectionists with deadlines.", FollowersCount: 180000, FriendsCount: 40, StatusesCount: 3100},
			{Name: "Bank Indonesia", ScreenName: "bank_indonesia", Description: "Official account of Bank Indonesia", FollowersCount: 1500000, FriendsCount: 5, StatusesCount: 25000},
		},
	}
}

// LoadSeed reads a YAML seed file. An empty path returns DefaultSeed.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return DefaultSeed(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	if len(seed.Users) == 0 {
		return Seed{}, fmt.Errorf("seed file %s defines no users", path)
	}

	return seed, nil
}

// profiles converts seed profiles to domain models.
func (s Seed) profiles() []domain.Profile {
	profiles := make([]domain.Profile, 0, len(s.Profiles))
	for _, p := range s.Profiles {
		profiles = append(profiles, domain.Profile{
			Name:           p.Name,
			ScreenName:     p.ScreenName,
			Description:    p.Description,
			FollowersCount: p.FollowersCount,
			FriendsCount:   p.FriendsCount,
			StatusesCount:  p.StatusesCount,
		})
	}
	return profiles
}
