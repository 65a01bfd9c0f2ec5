package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func lookup(values map[string]string) ValueGetter {
	return func(name string) string { return values[name] }
}

func TestViewerFromRequestPrefersQuery(t *testing.T) {
	viewer := ViewerFromRequest(
		lookup(map[string]string{"session": "from-query", "width": "375", "reduced_motion": "true", "locale": "ES"}),
		lookup(map[string]string{SessionHeader: "from-header", hintViewportWidth: "1440", "Accept-Language": "fr-FR"}),
	)
	assert.Equal(t, "from-header", viewer.SessionID)
	assert.Equal(t, 375, viewer.Viewport.Width)
	assert.True(t, viewer.Viewport.ReducedMotion)
	assert.Equal(t, "es", viewer.Locale)
}

func TestViewerFromRequestClientHints(t *testing.T) {
	viewer := ViewerFromRequest(
		lookup(map[string]string{"session": "s1"}),
		lookup(map[string]string{
			hintLegacyWidth:   "390",
			hintReducedMotion: "reduce",
			"Accept-Language": "*, es-MX;q=0.9, en;q=0.5",
		}),
	)
	assert.Equal(t, "s1", viewer.SessionID)
	assert.True(t, viewer.Viewport.IsMobile())
	assert.True(t, viewer.Viewport.ReducedMotion)
	assert.Equal(t, "es-mx", viewer.Locale)
}

func TestViewerFromRequestNilGetters(t *testing.T) {
	viewer := ViewerFromRequest(nil, nil)
	assert.Equal(t, ViewerContext{}, viewer)
	assert.Equal(t, "mousemove", viewer.Viewport.TooltipTrigger())
}

func TestActivityAgoLabel(t *testing.T) {
	cases := map[time.Duration]string{
		10 * time.Second: "just now",
		5 * time.Minute:  "5m ago",
		3 * time.Hour:    "3h ago",
		50 * time.Hour:   "2d ago",
	}
	for ago, want := range cases {
		assert.Equal(t, want, ActivityItem{Ago: ago}.AgoLabel())
	}
}
