package dashboard

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/vilaca/profile-dashboard/internal/service"
)

// Renderer handles rendering responses to HTTP clients.
// This interface follows Interface Segregation Principle (SOLID-I).
type Renderer interface {
	RenderHealth(w io.Writer) error
	RenderPage(w io.Writer, state service.State, refreshSeconds int) error
	RenderStateJSON(w io.Writer, state service.State) error
}

// HTMLRenderer implements Renderer for HTML responses.
type HTMLRenderer struct {
	// All HTML is embedded in methods, no external templates needed
}

// NewHTMLRenderer creates a new HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (r *HTMLRenderer) RenderHealth(w io.Writer) error {
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

// RenderPage renders the single dashboard page for the session's current phase.
func (r *HTMLRenderer) RenderPage(w io.Writer, state service.State, refreshSeconds int) error {
	_, err := w.Write([]byte(r.buildPageHTML(state, refreshSeconds)))
	return err
}

// RenderStateJSON renders the session snapshot as JSON.
func (r *HTMLRenderer) RenderStateJSON(w io.Writer, state service.State) error {
	return json.NewEncoder(w).Encode(state)
}

// buildPageHTML constructs the HTML for a session state.
// Follows SLAP - operates at single level of abstraction.
func (r *HTMLRenderer) buildPageHTML(state service.State, refreshSeconds int) string {
	var sb strings.Builder

	if !state.Phase.InFlight() {
		refreshSeconds = 0
	}
	sb.WriteString(htmlHead("Profiles", refreshSeconds))
	sb.WriteString(`
<body>
	<button class="theme-toggle" onclick="toggleTheme()">Theme</button>
	<div class="container">
		`)

	switch state.Phase {
	case service.PhaseFailed:
		sb.WriteString(`<div class="error">Error: ` + escapeHTML(state.Error) + `</div>`)
		sb.WriteString(resetButton("Retry"))
	case service.PhaseDisplaying:
		if len(state.Profiles) == 0 {
			sb.WriteString(`<p class="empty">No profiles found.</p>`)
		}
		for _, p := range state.Profiles {
			sb.WriteString(profileCard(p))
		}
		sb.WriteString(resetButton("Closed"))
	default:
		sb.WriteString(`<h1>DRF API FETCHING</h1>`)
		sb.WriteString(loginForm(state.Username, state.Phase.InFlight()))
		if state.Phase.InFlight() {
			sb.WriteString(`<p class="status">Trying to connect to the DRF API ...</p>`)
		}
	}

	sb.WriteString(`
	</div>
	`)
	sb.WriteString(themeScript())
	sb.WriteString(`
</body>
</html>`)

	return sb.String()
}
