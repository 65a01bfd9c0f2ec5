package dashboard

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/Turbo9k/dynamic-dashboard/components/dashboard"
)

func TestNewWiresBroadcastAndCustomHook(t *testing.T) {
	hook := &recordingHook{}
	d, err := New(Config{
		Options: Options{
			Generator:      core.NewRandomGenerator(3),
			RefreshHook:    hook,
			RefreshLatency: -1,
		},
		Renderer: stubRenderer{},
	})
	require.NoError(t, err)
	defer d.Service.Close()

	events, cancel := d.Broadcast.Subscribe("")
	defer cancel()

	session, err := d.Service.Mount(context.Background(), core.ViewerContext{})
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, core.ReasonMount, event.Reason)
		assert.Equal(t, session.ID(), event.SessionID)
	case <-time.After(time.Second):
		t.Fatalf("expected mount event on broadcast hook")
	}
	assert.Equal(t, 1, hook.count(core.ReasonMount))
}

func TestHTTPHandlerServesEmbeddedPage(t *testing.T) {
	points := make([]core.ChartPoint, 0, len(core.Months))
	for i, month := range core.Months {
		points = append(points, core.ChartPoint{Month: month, Value: float64(20 + i), Revenue: (20 + i) * 1000})
	}
	d, err := New(Config{Options: Options{Generator: core.StaticGenerator{
		Fixed:  core.Metrics{Revenue: 73210, Users: 1200, Performance: 80, Growth: 20},
		Points: points,
	}}})
	require.NoError(t, err)
	defer d.Service.Close()

	handler := d.HTTPHandler(10, nil)
	req := httptest.NewRequest(http.MethodGet, "/dashboard?width=1280", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "$73,210")
	assert.Equal(t, 1, d.Service.Len())
}

func TestEmbeddedPageRendersOutsideSourceTree(t *testing.T) {
	t.Chdir(t.TempDir())
	d, err := New(Config{Options: Options{Generator: core.StaticGenerator{
		Fixed:  core.Metrics{Revenue: 73210},
		Points: []core.ChartPoint{{Month: "Jan", Value: 40, Revenue: 40000}},
	}}})
	require.NoError(t, err)
	defer d.Service.Close()

	req := httptest.NewRequest(http.MethodGet, "/dashboard?width=375&reduced_motion=reduce", nil)
	rec := httptest.NewRecorder()
	d.HTTPHandler(10, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, "$73,210")
	assert.Contains(t, body, `"animation":false`)
	assert.Contains(t, body, `data-tooltip-trigger="click"`)
}

func TestEventStreamsRequireSession(t *testing.T) {
	d, err := New(Config{Renderer: stubRenderer{}})
	require.NoError(t, err)
	defer d.Service.Close()
	handler := d.HTTPHandler(10, nil)

	for _, path := range []string{"/dashboard/events", "/dashboard/ws"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Zero(t, d.Broadcast.Subscribers(), path)
	}
}

func TestChartCacheOnlyWrapsDefaultRenderer(t *testing.T) {
	d, err := New(Config{Renderer: stubRenderer{}, ChartCacheTTL: time.Minute})
	require.NoError(t, err)
	defer d.Service.Close()
	assert.NotNil(t, d.chartCache)

	d, err = New(Config{Renderer: stubRenderer{}, ChartCacheTTL: time.Minute, Charts: core.NewChartRenderer()})
	require.NoError(t, err)
	defer d.Service.Close()
	assert.Nil(t, d.chartCache, "a caller-supplied renderer owns its cache")
}

func TestFanoutHookJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	hook := fanoutHook{failingHook{err: boom}, &recordingHook{}}
	err := hook.SessionUpdated(context.Background(), core.SnapshotEvent{Reason: core.ReasonTick})
	assert.ErrorIs(t, err, boom)
}

func TestRegisterRequiresDashboard(t *testing.T) {
	assert.Error(t, Register[struct{}](nil, nil))
}

type stubRenderer struct{}

func (stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	if len(out) > 0 && out[0] != nil {
		io.WriteString(out[0], "ok")
	}
	return "ok", nil
}

type recordingHook struct {
	reasons []string
}

func (h *recordingHook) SessionUpdated(_ context.Context, event core.SnapshotEvent) error {
	h.reasons = append(h.reasons, event.Reason)
	return nil
}

func (h *recordingHook) count(reason string) int {
	n := 0
	for _, r := range h.reasons {
		if strings.EqualFold(r, reason) {
			n++
		}
	}
	return n
}

type failingHook struct{ err error }

func (f failingHook) SessionUpdated(context.Context, core.SnapshotEvent) error { return f.err }
