package dashboard

import (
	"context"
	"errors"
	"strings"
)

// TranslationService translates UI copy for a locale. Card titles are looked up
// under "dashboard.card.<card id>".
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

var errNoTranslation = errors.New("dashboard: no translation")

// StaticTranslations maps a key to its per-locale values.
type StaticTranslations map[string]map[string]string

// Translate resolves key for locale, falling back from language-region pairs
// to the base language and then to the "default" entry.
func (t StaticTranslations) Translate(_ context.Context, key, locale string, _ map[string]any) (string, error) {
	if value := ResolveLocalizedValue(t[key], locale, ""); value != "" {
		return value, nil
	}
	return "", errNoTranslation
}

// DefaultTranslations carries the Spanish card titles; English is the built-in copy.
func DefaultTranslations() StaticTranslations {
	return StaticTranslations{
		"dashboard.card.total-revenue": {"es": "Ingresos totales"},
		"dashboard.card.active-users":  {"es": "Usuarios activos"},
		"dashboard.card.performance":   {"es": "Rendimiento"},
		"dashboard.card.growth-rate":   {"es": "Crecimiento"},
		"dashboard.card.page-views":    {"es": "Páginas vistas"},
		"dashboard.card.bounce-rate":   {"es": "Tasa de rebote"},
		"dashboard.card.avg-session":   {"es": "Sesión media"},
		"dashboard.card.conversion":    {"es": "Conversión"},
	}
}

// ResolveLocalizedValue selects the best translation for the provided locale and falls back to the supplied value.
// Keys are matched case-insensitively, and language-region pairs (`es-mx`) automatically fall back to their
// base language (`es`) when present.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	return fallback
}

func localizeCards(ctx context.Context, svc TranslationService, locale string, cards []Card) []Card {
	if svc == nil || normalizeLocale(locale) == "" {
		return cards
	}
	out := make([]Card, len(cards))
	for i, card := range cards {
		card.Title = translateOrFallback(ctx, svc, "dashboard.card."+card.ID, locale, card.Title, nil)
		out[i] = card
	}
	return out
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	return append(candidates, "default")
}

func normalizeLocale(locale string) string {
	return strings.TrimSpace(strings.ToLower(locale))
}

func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string, params map[string]any) string {
	if svc != nil {
		if translated, err := svc.Translate(ctx, key, locale, params); err == nil && translated != "" {
			return translated
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}
