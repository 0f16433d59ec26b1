package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/vilaca/profile-dashboard/internal/service"
)

// SessionCookieName is the cookie that binds a browser to its workflow session.
const SessionCookieName = "profile_session"

// Handler handles HTTP requests for the dashboard.
// Each handler method has a Single Responsibility (SRP).
type Handler struct {
	renderer          Renderer
	logger            Logger
	sessions          SessionProvider
	uiRefreshInterval int
}

// Logger interface for logging operations (Interface Segregation Principle).
type Logger interface {
	Printf(format string, v ...interface{})
}

// WorkflowSession is the per-browser workflow state machine (Dependency Inversion Principle).
type WorkflowSession interface {
	Submit(ctx context.Context, username, password string) (<-chan struct{}, error)
	Reset()
	Snapshot() service.State
}

// SessionProvider resolves the session for a cookie value, creating one when needed.
type SessionProvider interface {
	Session(id string) (string, WorkflowSession)
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	Renderer          Renderer
	Logger            Logger
	Sessions          SessionProvider
	UIRefreshInterval int
}

// NewHandler creates a new Handler with injected dependencies (Dependency Inversion Principle).
// This follows IoC (Inversion of Control) by accepting dependencies rather than creating them.
func NewHandler(cfg HandlerConfig) *Handler {
	refresh := cfg.UIRefreshInterval
	if refresh <= 0 {
		refresh = 1
	}

	return &Handler{
		renderer:          cfg.Renderer,
		logger:            cfg.Logger,
		sessions:          cfg.Sessions,
		uiRefreshInterval: refresh,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("POST /reset", h.handleReset)
	mux.HandleFunc("GET /api/state", h.handleState)
	mux.HandleFunc("GET /api/health", h.handleHealth)
}

// handleHealth serves the health check endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.renderer.RenderHealth(w); err != nil {
		h.logger.Printf("failed to render health: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handleIndex serves the dashboard page for the caller's session.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)

	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Cache-Control", "no-store")

	if err := h.renderer.RenderPage(w, session.Snapshot(), h.uiRefreshInterval); err != nil {
		h.logger.Printf("failed to render page: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handleLogin submits the posted credentials and redirects back to the page.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	session := h.session(w, r)

	// Credentials are forwarded as-is; the backend does all validation.
	_, err := session.Submit(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	switch {
	case errors.Is(err, service.ErrWorkflowInFlight), errors.Is(err, service.ErrResetRequired):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		h.logger.Printf("failed to submit workflow: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleReset clears the caller's session and redirects back to the login form.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.session(w, r).Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleState returns the caller's session snapshot as JSON.
func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := h.renderer.RenderStateJSON(w, session.Snapshot()); err != nil {
		h.logger.Printf("failed to render state: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// session resolves the caller's session and refreshes the session cookie.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) WorkflowSession {
	var id string
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		id = cookie.Value
	}

	newID, session := h.sessions.Session(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return session
}

// storeProvider adapts service.SessionStore to SessionProvider.
type storeProvider struct {
	store *service.SessionStore
}

// NewSessionProvider creates a SessionProvider backed by store.
func NewSessionProvider(store *service.SessionStore) SessionProvider {
	return &storeProvider{store: store}
}

func (p *storeProvider) Session(id string) (string, WorkflowSession) {
	return p.store.GetOrCreate(id)
}
