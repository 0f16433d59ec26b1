package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vilaca/profile-dashboard/internal/domain"
)

// htmlHead returns the common HTML head section with proper meta tags.
// A positive refreshSeconds adds a meta refresh so pending requests poll for their result.
func htmlHead(title string, refreshSeconds int) string {
	refresh := ""
	if refreshSeconds > 0 {
		refresh = fmt.Sprintf(`<meta http-equiv="refresh" content="%d">`, refreshSeconds)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0, viewport-fit=cover">
	<meta name="description" content="Browse DRF profiles after signing in">
	%s
	<title>%s - Profile Dashboard</title>
	%s
</head>`, refresh, escapeHTML(title), commonCSS())
}

// commonCSS returns the shared CSS styles used across all pages.
func commonCSS() string {
	return `<style>
		/* CSS Variables for theming */
		:root {
			--bg-primary: #f5f5f5;
			--bg-secondary: white;
			--text-primary: #333;
			--text-secondary: #666;
			--button-bg: #0066cc;
			--button-hover: #0052a3;
			--border-color: #e0e0e0;
			--shadow: rgba(0,0,0,0.1);
			--failed-bg: #f8d7da;
			--failed-text: #721c24;
			--followers: #0066cc;
			--friends: #2e7d32;
			--statuses: #e67e22;
		}

		[data-theme="dark"] {
			--bg-primary: #1a1a1a;
			--bg-secondary: #2d2d2d;
			--text-primary: #e0e0e0;
			--text-secondary: #b0b0b0;
			--button-bg: #4d9fff;
			--button-hover: #3d89ef;
			--border-color: #404040;
			--shadow: rgba(0,0,0,0.3);
			--failed-bg: #4a1a1a;
			--failed-text: #ff6b6b;
			--followers: #4d9fff;
			--friends: #90ee90;
			--statuses: #ffb366;
		}

		* { box-sizing: border-box; margin: 0; padding: 0; }
		body { font-family: system-ui, -apple-system, sans-serif; padding: 20px; background: var(--bg-primary); color: var(--text-primary); line-height: 1.6; }
		.container { max-width: 640px; margin: 0 auto; }
		h1 { color: var(--button-bg); font-size: 2.2rem; text-align: center; margin: 20px 50px 40px; }
		.card { background: var(--bg-secondary); padding: 16px 20px; border-radius: 8px; box-shadow: 0 2px 4px var(--shadow); margin-bottom: 12px; }
		.card .screen-name, .card .description { color: var(--text-secondary); }
		.card .name { font-weight: 600; font-size: 1.1rem; }
		.counts { display: flex; justify-content: space-between; margin-top: 8px; }
		.followers { color: var(--followers); }
		.friends { color: var(--friends); }
		.statuses { color: var(--statuses); }
		form.login { display: flex; flex-direction: column; gap: 20px; }
		input { padding: 10px; border: 1px solid var(--border-color); border-radius: 6px; background: var(--bg-secondary); color: var(--text-primary); font-size: 1rem; }
		button { padding: 12px 16px; background: var(--button-bg); color: white; border: none; border-radius: 10px; font-size: 1rem; cursor: pointer; }
		button:hover { background: var(--button-hover); }
		button:disabled { opacity: 0.6; cursor: default; }
		.error { background: var(--failed-bg); color: var(--failed-text); padding: 16px; border-radius: 8px; margin-bottom: 16px; }
		.status, .empty { color: var(--text-secondary); text-align: center; }
		.theme-toggle { position: fixed; top: 12px; right: 12px; background: var(--bg-secondary); color: var(--text-primary); border: 1px solid var(--border-color); padding: 6px 12px; font-size: 0.85rem; }
	</style>`
}

// themeScript returns the dark mode toggle script.
func themeScript() string {
	return `<script>
		function toggleTheme() {
			const html = document.documentElement;
			const newTheme = html.getAttribute('data-theme') === 'dark' ? 'light' : 'dark';
			html.setAttribute('data-theme', newTheme);
			localStorage.setItem('theme', newTheme);
		}
		document.documentElement.setAttribute('data-theme', localStorage.getItem('theme') || 'light');
	</script>`
}

// loginForm renders the credential form. The form is disabled while a request is running.
func loginForm(username string, disabled bool) string {
	disabledAttr := ""
	if disabled {
		disabledAttr = " disabled"
	}

	return fmt.Sprintf(`<form class="login" method="post" action="/login">
			<input type="text" name="username" placeholder="Username" value="%s" autocapitalize="none" autocomplete="username"%s>
			<input type="password" name="password" placeholder="Password" autocomplete="current-password"%s>
			<button type="submit"%s>Submit</button>
		</form>`, escapeHTML(username), disabledAttr, disabledAttr, disabledAttr)
}

// resetButton renders a form posting to /reset with the given label.
func resetButton(label string) string {
	return fmt.Sprintf(`<form method="post" action="/reset"><button type="submit">%s</button></form>`, escapeHTML(label))
}

// profileCard renders a single profile.
func profileCard(p domain.Profile) string {
	var sb strings.Builder
	sb.WriteString(`<div class="card">`)
	sb.WriteString(`<div class="name">` + escapeHTML(p.Name) + `</div>`)
	sb.WriteString(`<div class="screen-name">@` + escapeHTML(p.ScreenName) + `</div>`)
	sb.WriteString(`<div class="description">` + escapeHTML(p.Description) + `</div>`)
	sb.WriteString(`<div class="counts">`)
	sb.WriteString(`<span class="followers">Followers: ` + strconv.Itoa(p.FollowersCount) + `</span>`)
	sb.WriteString(`<span class="friends">Friends: ` + strconv.Itoa(p.FriendsCount) + `</span>`)
	sb.WriteString(`<span class="statuses">Statuses: ` + strconv.Itoa(p.StatusesCount) + `</span>`)
	sb.WriteString(`</div></div>`)
	return sb.String()
}

// escapeHTML escapes special HTML characters to prevent XSS.
func escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}
