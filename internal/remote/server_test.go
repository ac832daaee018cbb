package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phanxgames/ornament"
	"github.com/phanxgames/ornament/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T) (*ornament.Scene, *ornament.Mailbox, http.Handler) {
	t.Helper()
	s, err := ornament.NewScene(ornament.DefaultSceneConfig(), nil)
	require.NoError(t, err)
	mb := ornament.NewMailbox()
	s.SetMailbox(mb)
	return s, mb, NewHandler(mb, logging.NewNop())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func tick(s *ornament.Scene, n int) {
	for i := 0; i < n; i++ {
		s.Update(1.0 / 60)
	}
}

func TestGetHealth(t *testing.T) {
	_, _, h := newTestScene(t)
	rr := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetStateInitial(t *testing.T) {
	_, _, h := newTestScene(t)
	rr := do(t, h, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var st StateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, "tree", st.Phase)
	assert.Equal(t, "None", st.Gesture)
	assert.Equal(t, 0.0, st.Progress)
	assert.Equal(t, 1.0, st.Topper)
	assert.Len(t, st.Photos, ornament.PhotoCount)
}

func TestPostToggleBlooms(t *testing.T) {
	s, _, h := newTestScene(t)
	rr := do(t, h, http.MethodPost, "/toggle", "")
	assert.Equal(t, http.StatusAccepted, rr.Code)

	tick(s, 1)
	assert.Equal(t, ornament.PhaseBlooming, s.Phase())

	var st StateResponse
	require.NoError(t, json.Unmarshal(do(t, h, http.MethodGet, "/state", "").Body.Bytes(), &st))
	assert.Equal(t, "blooming", st.Phase)
	assert.Equal(t, uint64(1), st.Tick)
}

func TestPostRawGesturesDebounced(t *testing.T) {
	s, _, h := newTestScene(t)
	for i := 0; i < 6; i++ {
		rr := do(t, h, http.MethodPost, "/raw", `{"gesture": "Open_Palm", "x": 0.5, "y": 0.5}`)
		require.Equal(t, http.StatusAccepted, rr.Code)
	}
	tick(s, 5)
	assert.Equal(t, ornament.PhaseTree, s.Phase())
	tick(s, 1)
	assert.Equal(t, ornament.PhaseBlooming, s.Phase())
}

func TestPostGestureWithHandSteersRing(t *testing.T) {
	s, _, h := newTestScene(t)
	do(t, h, http.MethodPost, "/toggle", "")
	tick(s, 200)
	require.Equal(t, ornament.PhaseNebula, s.Phase())

	rr := do(t, h, http.MethodPost, "/gesture", `{"gesture": "Open_Palm", "x": 0.75, "y": 0.8}`)
	require.Equal(t, http.StatusAccepted, rr.Code)
	tick(s, 2)

	assert.Equal(t, ornament.GestureOpenPalm, s.Gesture())
	assert.InDelta(t, 0.91, s.Ring().TargetScale, 1e-9)
	assert.Greater(t, s.Ring().TargetVelocity, 0.0)
}

func TestPostHandAndPointer(t *testing.T) {
	s, _, h := newTestScene(t)
	assert.Equal(t, http.StatusAccepted, do(t, h, http.MethodPost, "/pointer", `{"x": 0.2, "y": -0.3}`).Code)
	tick(s, 1)
	assert.True(t, s.Input().PointerValid)
	assert.Equal(t, ornament.Vec2{X: 0.2, Y: -0.3}, s.Input().Pointer)

	assert.Equal(t, http.StatusAccepted, do(t, h, http.MethodDelete, "/pointer", "").Code)
	tick(s, 1)
	assert.False(t, s.Input().PointerValid)

	assert.Equal(t, http.StatusAccepted, do(t, h, http.MethodPost, "/hand", `{"x": 0.1, "y": 0.9}`).Code)
	tick(s, 1)
	assert.Equal(t, 0.1, s.Input().Hand.X)
	assert.Equal(t, 0.9, s.Input().Hand.Y)
}

func TestPostPhotos(t *testing.T) {
	s, mb, h := newTestScene(t)
	assert.Equal(t, http.StatusAccepted, do(t, h, http.MethodPost, "/photos", `{"urls": ["me.jpg"]}`).Code)
	tick(s, 1)
	assert.Equal(t, ornament.PhaseBlooming, s.Phase())
	assert.Equal(t, "me.jpg", mb.Status().Photos[0])

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/photos", `{"urls": []}`).Code)
}

func TestBadRequests(t *testing.T) {
	_, _, h := newTestScene(t)
	cases := []struct {
		path, body string
	}{
		{"/gesture", `{"gesture": "Thumbs_Up"}`},
		{"/gesture", `not json`},
		{"/raw", `{"gesture": "open_palm"}`},
		{"/hand", `{"x": "left"}`},
	}
	for _, c := range cases {
		rr := do(t, h, http.MethodPost, c.path, c.body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "%s %s", c.path, c.body)
	}
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/toggle", "").Code)
}

func TestWithMetrics(t *testing.T) {
	mb := ornament.NewMailbox()
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ornament_ticks_total 3\n"))
	})
	h := NewHandler(mb, nil, WithMetrics(metrics))

	rr := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ornament_ticks_total")

	// A nil logger is allowed.
	assert.Equal(t, http.StatusAccepted, do(t, h, http.MethodPost, "/toggle", "").Code)
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), logging.NewNop())
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestOversizedBodyRejected(t *testing.T) {
	s, _, h := newTestScene(t)
	url := `"https://picsum.photos/id/1/400/500",`
	body := `{"urls": [` + strings.Repeat(url, maxBodyBytes/len(url)+1) + `"last.png"]}`

	rr := do(t, h, http.MethodPost, "/photos", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	tick(s, 1)
	assert.Equal(t, ornament.PhaseTree, s.Phase())
	assert.Equal(t, 0, s.Pending())
}
