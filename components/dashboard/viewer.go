package dashboard

import "strings"

// SessionHeader carries the session id on page interactions.
const SessionHeader = "X-Dashboard-Session"

// Client hint headers consulted when the page has not reported its viewport.
const (
	hintViewportWidth = "Sec-CH-Viewport-Width"
	hintLegacyWidth   = "Viewport-Width"
	hintReducedMotion = "Sec-CH-Prefers-Reduced-Motion"
)

// ValueGetter looks up a request value by name (query parameter or header).
type ValueGetter func(name string) string

// ViewerFromRequest builds a ViewerContext from query and header lookups.
// Query parameters win over headers so the page can report exact values.
func ViewerFromRequest(query, header ValueGetter) ViewerContext {
	if query == nil {
		query = func(string) string { return "" }
	}
	if header == nil {
		header = func(string) string { return "" }
	}
	viewer := ViewerContext{
		SessionID: firstNonEmpty(header(SessionHeader), query(SessionQueryParam)),
		Locale:    strings.ToLower(strings.TrimSpace(query("locale"))),
	}
	if viewer.Locale == "" {
		viewer.Locale = parseAcceptLanguage(header("Accept-Language"))
	}
	viewer.Viewport.Width = ParseViewportWidth(firstNonEmpty(
		query("width"),
		header(hintViewportWidth),
		header(hintLegacyWidth),
	))
	viewer.Viewport.ReducedMotion = ParseReducedMotion(firstNonEmpty(
		query("reduced_motion"),
		header(hintReducedMotion),
	))
	return viewer
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" && token != "*" {
			return strings.ToLower(token)
		}
	}
	return ""
}
