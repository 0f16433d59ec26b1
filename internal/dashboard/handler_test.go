package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vilaca/profile-dashboard/internal/domain"
	"github.com/vilaca/profile-dashboard/internal/service"
)

// mockRenderer is a test double for Renderer (follows FIRST - Independent).
type mockRenderer struct {
	healthErr error
	pageErr   error
	stateErr  error
}

func (m *mockRenderer) RenderHealth(w io.Writer) error {
	if m.healthErr != nil {
		return m.healthErr
	}
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

func (m *mockRenderer) RenderPage(w io.Writer, state service.State, refreshSeconds int) error {
	if m.pageErr != nil {
		return m.pageErr
	}
	_, err := w.Write([]byte("mock page " + string(state.Phase)))
	return err
}

func (m *mockRenderer) RenderStateJSON(w io.Writer, state service.State) error {
	if m.stateErr != nil {
		return m.stateErr
	}
	return json.NewEncoder(w).Encode(state)
}

// mockLogger is a test double for Logger.
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockLogger) Printf(format string, v ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, format)
}

// mockSession is a test double for WorkflowSession.
type mockSession struct {
	state     service.State
	submitErr error
	username  string
	password  string
	submits   int
	resets    int
}

func (m *mockSession) Submit(ctx context.Context, username, password string) (<-chan struct{}, error) {
	m.submits++
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	m.username, m.password = username, password
	done := make(chan struct{})
	close(done)
	return done, nil
}

func (m *mockSession) Reset() {
	m.resets++
}

func (m *mockSession) Snapshot() service.State {
	return m.state
}

// mockProvider is a test double for SessionProvider that always returns one session.
type mockProvider struct {
	id      string
	session *mockSession
	lookups []string
}

func (m *mockProvider) Session(id string) (string, WorkflowSession) {
	m.lookups = append(m.lookups, id)
	return m.id, m.session
}

func newTestMux(renderer Renderer, logger Logger, provider SessionProvider) *http.ServeMux {
	handler := NewHandler(HandlerConfig{
		Renderer:          renderer,
		Logger:            logger,
		Sessions:          provider,
		UIRefreshInterval: 1,
	})
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux
}

func newProvider(session *mockSession) *mockProvider {
	return &mockProvider{id: "session-1", session: session}
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// TestHandleHealth tests the health check endpoint.
// Follows AAA (Arrange, Act, Assert) and FIRST principles.
func TestHandleHealth(t *testing.T) {
	// Arrange
	mux := newTestMux(&mockRenderer{}, &mockLogger{}, newProvider(&mockSession{}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	// Act
	mux.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	expected := `{"status":"ok"}`
	if w.Body.String() != expected {
		t.Errorf("expected body %q, got %q", expected, w.Body.String())
	}

	contentType := w.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}
}

// TestHandleHealth_RenderError tests error handling in health endpoint.
func TestHandleHealth_RenderError(t *testing.T) {
	// Arrange
	logger := &mockLogger{}
	mux := newTestMux(&mockRenderer{healthErr: errors.New("render error")}, logger, newProvider(&mockSession{}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	// Act
	mux.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}

	if len(logger.messages) == 0 {
		t.Error("expected error to be logged")
	}
}

// TestHandleIndex tests the page endpoint and session cookie issuance.
func TestHandleIndex(t *testing.T) {
	// Arrange
	provider := newProvider(&mockSession{state: service.State{Phase: service.PhaseIdle}})
	mux := newTestMux(&mockRenderer{}, &mockLogger{}, provider)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	// Act
	mux.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	contentType := w.Header().Get("Content-Type")
	if contentType != "text/html" {
		t.Errorf("expected Content-Type text/html, got %s", contentType)
	}

	if !strings.Contains(w.Body.String(), "mock page idle") {
		t.Errorf("expected body to contain 'mock page idle', got %q", w.Body.String())
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookieName || cookies[0].Value != "session-1" {
		t.Fatalf("expected session cookie, got %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("expected session cookie to be HttpOnly")
	}
}

// TestHandleIndex_ExistingCookie tests that a known session keeps its cookie.
func TestHandleIndex_ExistingCookie(t *testing.T) {
	// Arrange
	provider := newProvider(&mockSession{})
	mux := newTestMux(&mockRenderer{}, &mockLogger{}, provider)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "session-1"})
	w := httptest.NewRecorder()

	// Act
	mux.ServeHTTP(w, req)

	// Assert
	if len(provider.lookups) != 1 || provider.lookups[0] != "session-1" {
		t.Errorf("expected lookup of cookie value, got %v", provider.lookups)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Errorf("expected no new cookie, got %v", w.Result().Cookies())
	}
}

// TestHandleIndex_RenderError tests error handling in page endpoint.
func TestHandleIndex_RenderError(t *testing.T) {
	// Arrange
	logger := &mockLogger{}
	mux := newTestMux(&mockRenderer{pageErr: errors.New("render error")}, logger, newProvider(&mockSession{}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	// Act
	mux.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	if len(logger.messages) == 0 {
		t.Error("expected error to be logged")
	}
}

// TestHandleIndex_UnknownPath tests that only the root path serves the page.
func TestHandleIndex_UnknownPath(t *testing.T) {
	mux := newTestMux(&mockRenderer{}, &mockLogger{}, newProvider(&mockSession{}))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

// TestHandleLogin tests credential submission and redirect.
func TestHandleLogin(t *testing.T) {
	// Arrange
	session := &mockSession{}
	mux := newTestMux(&mockRenderer{}, &mockLogger{}, newProvider(session))

	req := postForm("/login", url.Values{"username": {"alice"}, "password": {"secret"}})
	w := httptest.NewRecorder()

	// Act
	mux.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", w.Code)
	}
	if w.Header().Get("Location") != "/" {
		t.Errorf("expected redirect to /, got %q", w.Header().Get("Location"))
	}
	if session.username != "alice" || session.password != "secret" {
		t.Errorf("expected credentials to be submitted, got %q/%q", session.username, session.password)
	}
}

// TestHandleLogin_EmptyCredentials tests that empty fields are forwarded.
func TestHandleLogin_EmptyCredentials(t *testing.T) {
	// Arrange
	session := &mockSession{}
	mux := newTestMux(&mockRenderer{}, &mockLogger{}, newProvider(session))

	w := httptest.NewRecorder()

	// Act
	mux.ServeHTTP(w, postForm("/login", url.Values{}))

	// Assert
	if session.submits != 1 {
		t.Errorf("expected 1 submission, got %d", session.submits)
	}
	if w.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", w.Code)
	}
}

// TestHandleLogin_Conflict tests that re-entry is reported as a conflict.
func TestHandleLogin_Conflict(t *testing.T) {
	for _, submitErr := range []error{service.ErrWorkflowInFlight, service.ErrResetRequired} {
		t.Run(submitErr.Error(), func(t *testing.T) {
			// Arrange
			session := &mockSession{submitErr: submitErr}
			mux := newTestMux(&mockRenderer{}, &mockLogger{}, newProvider(session))

			w := httptest.NewRecorder()

			// Act
			mux.ServeHTTP(w, postForm("/login", url.Values{"username": {"alice"}, "password": {"secret"}}))

			// Assert
			if w.Code != http.StatusConflict {
				t.Errorf("expected status 409, got %d", w.Code)
			}
		})
	}
}

// TestHandleLogin_MethodNotAllowed tests that GET cannot submit credentials.
func TestHandleLogin_MethodNotAllowed(t *testing.T) {
	session := &mockSession{}
	mux := newTestMux(&mockRenderer{}, &mockLogger{}, newProvider(session))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login?username=a&password=b", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
	if session.submits != 0 {
		t.Error("expected no submission")
	}
}

// TestHandleReset tests the reset action.
func TestHandleReset(t *testing.T) {
	// Arrange
	session := &mockSession{}
	mux := newTestMux(&mockRenderer{}, &mockLogger{}, newProvider(session))

	w := httptest.NewRecorder()

	// Act
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reset", nil))

	// Assert
	if session.resets != 1 {
		t.Errorf("expected 1 reset, got %d", session.resets)
	}
	if w.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", w.Code)
	}
}

// TestHandleState tests the JSON state endpoint.
func TestHandleState(t *testing.T) {
	// Arrange
	session := &mockSession{state: service.State{Phase: service.PhaseFailed, Error: domain.MsgFetchShape}}
	mux := newTestMux(&mockRenderer{}, &mockLogger{}, newProvider(session))

	w := httptest.NewRecorder()

	// Act
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	// Assert
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var state service.State
	if err := json.NewDecoder(w.Body).Decode(&state); err != nil {
		t.Fatalf("expected JSON body: %v", err)
	}
	if state.Phase != service.PhaseFailed || state.Error != domain.MsgFetchShape {
		t.Errorf("unexpected state %+v", state)
	}
}

// instantRunner is a service.Runner that succeeds immediately.
type instantRunner struct {
	profiles []domain.Profile
}

func (r *instantRunner) RunObserved(ctx context.Context, username, password string, onAuthenticated func(domain.Token)) domain.Result {
	onAuthenticated("tok-never-rendered")
	return domain.Success(r.profiles)
}

// TestDashboard_EndToEnd drives login, display and reset through real sessions.
func TestDashboard_EndToEnd(t *testing.T) {
	// Arrange
	logger := &mockLogger{}
	runner := &instantRunner{profiles: []domain.Profile{{Name: "Alice Profile", ScreenName: "alice"}}}
	store := service.NewSessionStore(func() *service.Session {
		return service.NewSession(runner, logger)
	}, time.Minute, logger)
	handler := NewHandler(HandlerConfig{
		Renderer: NewHTMLRenderer(),
		Logger:   logger,
		Sessions: NewSessionProvider(store),
	})
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	// Act: first visit issues a cookie
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected session cookie, got %v", cookies)
	}
	cookie := cookies[0]

	login := postForm("/login", url.Values{"username": {"alice"}, "password": {"hunter2"}})
	login.AddCookie(cookie)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, login)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", w.Code)
	}

	// Wait for the invocation to land
	var stateBody string
	deadline := time.Now().Add(5 * time.Second)
	for {
		req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
		req.AddCookie(cookie)
		w = httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		stateBody = w.Body.String()
		if strings.Contains(stateBody, `"phase":"displaying"`) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for displaying state, last %s", stateBody)
		}
		time.Sleep(10 * time.Millisecond)
	}

	page := httptest.NewRequest(http.MethodGet, "/", nil)
	page.AddCookie(cookie)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, page)

	// Assert
	if !strings.Contains(w.Body.String(), "Alice Profile") {
		t.Error("expected profile to be rendered")
	}
	for _, secret := range []string{"hunter2", "tok-never-rendered"} {
		if strings.Contains(w.Body.String(), secret) || strings.Contains(stateBody, secret) {
			t.Errorf("expected %q never to be rendered", secret)
		}
	}

	reset := httptest.NewRequest(http.MethodPost, "/reset", nil)
	reset.AddCookie(cookie)
	mux.ServeHTTP(httptest.NewRecorder(), reset)

	page = httptest.NewRequest(http.MethodGet, "/", nil)
	page.AddCookie(cookie)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, page)
	if !strings.Contains(w.Body.String(), "DRF API FETCHING") || strings.Contains(w.Body.String(), "Alice Profile") {
		t.Error("expected login form without previous results after reset")
	}
	if store.Len() != 1 {
		t.Errorf("expected a single session, got %d", store.Len())
	}
}
