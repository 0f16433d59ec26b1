// Package mockdrf is an in-memory stand-in for the DRF backend. It issues
// HS256 access tokens from /api/token/ and serves a paginated profile list
// from /api/twitter-profiles/ to requests bearing a valid access token.
package mockdrf

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/vilaca/profile-dashboard/internal/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Config holds mock backend settings.
type Config struct {
	SigningKey []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	PageSize   int
	Issuer     string
	BcryptCost int
}

func (c *Config) applyDefaults() {
	if c.AccessTTL <= 0 {
		c.AccessTTL = 5 * time.Minute
	}
	if c.RefreshTTL <= 0 {
		c.RefreshTTL = 24 * time.Hour
	}
	if c.PageSize <= 0 {
		c.PageSize = 10
	}
	if c.Issuer == "" {
		c.Issuer = "drf-mock"
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
}

// RandomKey returns a fresh 32-byte signing key.
func RandomKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	return key, nil
}

// tokenClaims mirrors the claims simplejwt puts in its tokens.
type tokenClaims struct {
	TokenType string `json:"token_type"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// Server is the mock DRF backend.
type Server struct {
	cfg      Config
	users    map[string][]byte // username -> bcrypt hash
	profiles []domain.Profile
	logger   Logger
	now      func() time.Time
}

// NewServer creates a mock backend serving seed. Passwords are kept only as bcrypt hashes.
func NewServer(seed Seed, cfg Config, logger Logger) (*Server, error) {
	if len(cfg.SigningKey) == 0 {
		return nil, errors.New("signing key is required")
	}
	cfg.applyDefaults()

	users := make(map[string][]byte, len(seed.Users))
	for _, u := range seed.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
		}
		users[u.Username] = hash
	}

	return &Server{
		cfg:      cfg,
		users:    users,
		profiles: seed.profiles(),
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Router returns the HTTP routes of the mock backend.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/token/", s.handleToken).Methods(http.MethodPost)
	r.HandleFunc("/api/twitter-profiles/", s.handleProfiles).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	return r
}

type tokenRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// handleToken implements the token obtain pair endpoint.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error - " + err.Error()})
		return
	}

	fieldErrors := map[string][]string{}
	if req.Username == nil {
		fieldErrors["username"] = []string{"This field is required."}
	} else if *req.Username == "" {
		fieldErrors["username"] = []string{"This field may not be blank."}
	}
	if req.Password == nil {
		fieldErrors["password"] = []string{"This field is required."}
	} else if *req.Password == "" {
		fieldErrors["password"] = []string{"This field may not be blank."}
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, fieldErrors)
		return
	}

	hash, ok := s.users[*req.Username]
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(*req.Password)) != nil {
		s.logger.Printf("mock DRF: rejected credentials for %q", *req.Username)
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "No active account found with the given credentials",
		})
		return
	}

	access, err := s.issue(*req.Username, tokenTypeAccess, s.cfg.AccessTTL)
	if err != nil {
		s.logger.Printf("mock DRF: failed to sign access token: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	refresh, err := s.issue(*req.Username, tokenTypeRefresh, s.cfg.RefreshTTL)
	if err != nil {
		s.logger.Printf("mock DRF: failed to sign refresh token: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.logger.Printf("mock DRF: issued tokens for %q", *req.Username)
	writeJSON(w, http.StatusOK, map[string]string{"refresh": refresh, "access": access})
}

// handleProfiles serves one page of profiles to a valid access token.
func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	tokenString := extractToken(r)
	if tokenString == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Authentication credentials were not provided.",
		})
		return
	}

	if _, err := s.verify(tokenString); err != nil {
		s.logger.Printf("mock DRF: rejected bearer token: %v", err)
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Given token not valid for any token type",
			"code":   "token_not_valid",
		})
		return
	}

	page := 1
	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		p, err := strconv.Atoi(pageParam)
		if err != nil || p < 1 {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Invalid page."})
			return
		}
		page = p
	}

	start := (page - 1) * s.cfg.PageSize
	if start > 0 && start >= len(s.profiles) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Invalid page."})
		return
	}
	end := min(start+s.cfg.PageSize, len(s.profiles))

	writeJSON(w, http.StatusOK, profilePage{
		Count:    len(s.profiles),
		Next:     pageURL(r, page+1, end < len(s.profiles)),
		Previous: pageURL(r, page-1, page > 1),
		Results:  s.profiles[start:end],
	})
}

type profilePage struct {
	Count    int              `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  []domain.Profile `json:"results"`
}

// issue signs a token of the given type for username.
func (s *Server) issue(username, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := tokenClaims{
		TokenType: tokenType,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   username,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.SigningKey)
}

// verify parses tokenString and requires a current access token signed with our key.
func (s *Server) verify(tokenString string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.cfg.SigningKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, fmt.Errorf("token type %q is not %q", claims.TokenType, tokenTypeAccess)
	}
	return claims, nil
}

// extractToken extracts the token from the Authorization header.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// pageURL returns the absolute URL of page, or nil when ok is false.
func pageURL(r *http.Request, page int, ok bool) *string {
	if !ok {
		return nil
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	u := fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.Path)
	if page > 1 {
		u += "?page=" + strconv.Itoa(page)
	}
	return &u
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
