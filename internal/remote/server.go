// Package remote exposes a Scene over HTTP so an external hand-tracking
// process can feed gestures and read back the scene state.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phanxgames/ornament"
)

// shutdownTimeout bounds graceful shutdown of Serve.
const shutdownTimeout = 5 * time.Second

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server translates HTTP requests into mailbox events. It never touches the
// scene directly.
type Server struct {
	Mailbox *ornament.Mailbox
	Log     *slog.Logger
}

// Option configures NewHandler.
type Option func(r chi.Router)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(r chi.Router) {
		r.Method(http.MethodGet, "/metrics", h)
	}
}

// NewHandler creates the HTTP handler for mb.
func NewHandler(mb *ornament.Mailbox, log *slog.Logger, opts ...Option) http.Handler {
	s := &Server{Mailbox: mb, Log: log}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.Health)
	r.Get("/state", s.State)
	r.Post("/gesture", s.Gesture)
	r.Post("/raw", s.Raw)
	r.Post("/hand", s.Hand)
	r.Post("/pointer", s.Pointer)
	r.Delete("/pointer", s.PointerLost)
	r.Post("/toggle", s.Toggle)
	r.Post("/photos", s.Photos)

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StateResponse is the JSON form of ornament.Status.
type StateResponse struct {
	Tick       uint64   `json:"tick"`
	Elapsed    float64  `json:"elapsed"`
	Phase      string   `json:"phase"`
	Gesture    string   `json:"gesture"`
	Progress   float64  `json:"progress"`
	Ring       RingJSON `json:"ring"`
	Core       CoreJSON `json:"core"`
	Topper     float64  `json:"topper"`
	PhotoScale float64  `json:"photoScale"`
	Photos     []string `json:"photos"`
}

// RingJSON is the nebula ring state.
type RingJSON struct {
	Yaw            float64 `json:"yaw"`
	Velocity       float64 `json:"velocity"`
	Scale          float64 `json:"scale"`
	TargetVelocity float64 `json:"targetVelocity"`
	TargetScale    float64 `json:"targetScale"`
}

// CoreJSON is the core marker state.
type CoreJSON struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Opacity float64 `json:"opacity"`
	Scale   float64 `json:"scale"`
	Visible bool    `json:"visible"`
}

func stateFromStatus(st ornament.Status) StateResponse {
	photos := st.Photos
	if photos == nil {
		photos = []string{}
	}
	return StateResponse{
		Tick:     st.Tick,
		Elapsed:  st.Elapsed,
		Phase:    st.Phase.String(),
		Gesture:  st.Gesture.String(),
		Progress: st.Progress,
		Ring: RingJSON{
			Yaw:            st.Ring.Yaw,
			Velocity:       st.Ring.Velocity,
			Scale:          st.Ring.Scale,
			TargetVelocity: st.Ring.TargetVelocity,
			TargetScale:    st.Ring.TargetScale,
		},
		Core: CoreJSON{
			X:       st.Core.Offset.X,
			Y:       st.Core.Offset.Y,
			Opacity: st.Core.Opacity,
			Scale:   st.Core.Scale,
			Visible: st.Core.Visible,
		},
		Topper:     st.Topper,
		PhotoScale: st.PhotoScale,
		Photos:     photos,
	}
}

// GestureRequest carries a debounced or raw gesture. Hand defaults to true
// for raw samples.
type GestureRequest struct {
	Gesture string   `json:"gesture"`
	Hand    *bool    `json:"hand,omitempty"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
}

// PointRequest carries a normalized position.
type PointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PhotosRequest carries uploaded photo URLs.
type PhotosRequest struct {
	URLs []string `json:"urls"`
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// State handles GET /state.
func (s *Server) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateFromStatus(s.Mailbox.Status()))
}

// Gesture handles POST /gesture with an already-debounced gesture. When x
// and y are both present the hand position is posted too.
func (s *Server) Gesture(w http.ResponseWriter, r *http.Request) {
	var body GestureRequest
	if !decode(w, r, &body) {
		return
	}
	g, err := parseGesture(body.Gesture)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.Mailbox.Post(ornament.Event{Kind: ornament.EventGesture, Gesture: g})
	if body.X != nil && body.Y != nil {
		s.Mailbox.Post(ornament.Event{Kind: ornament.EventHand, X: *body.X, Y: *body.Y})
	}
	s.accepted(w, "gesture", slog.String("gesture", g.String()))
}

// Raw handles POST /raw with one recognizer sample; the scene debounces it.
func (s *Server) Raw(w http.ResponseWriter, r *http.Request) {
	var body GestureRequest
	if !decode(w, r, &body) {
		return
	}
	g, err := parseGesture(body.Gesture)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	raw := ornament.RawGesture{Gesture: g, HandPresent: body.Hand == nil || *body.Hand}
	if body.X != nil {
		raw.X = *body.X
	}
	if body.Y != nil {
		raw.Y = *body.Y
	}
	s.Mailbox.Post(ornament.Event{Kind: ornament.EventRawGesture, Raw: raw})
	w.WriteHeader(http.StatusAccepted)
}

// Hand handles POST /hand.
func (s *Server) Hand(w http.ResponseWriter, r *http.Request) {
	var body PointRequest
	if !decode(w, r, &body) {
		return
	}
	s.Mailbox.Post(ornament.Event{Kind: ornament.EventHand, X: body.X, Y: body.Y})
	w.WriteHeader(http.StatusAccepted)
}

// Pointer handles POST /pointer with NDC coordinates.
func (s *Server) Pointer(w http.ResponseWriter, r *http.Request) {
	var body PointRequest
	if !decode(w, r, &body) {
		return
	}
	s.Mailbox.Post(ornament.Event{Kind: ornament.EventPointer, X: body.X, Y: body.Y})
	w.WriteHeader(http.StatusAccepted)
}

// PointerLost handles DELETE /pointer.
func (s *Server) PointerLost(w http.ResponseWriter, r *http.Request) {
	s.Mailbox.Post(ornament.Event{Kind: ornament.EventPointerLost})
	w.WriteHeader(http.StatusAccepted)
}

// Toggle handles POST /toggle.
func (s *Server) Toggle(w http.ResponseWriter, r *http.Request) {
	s.Mailbox.Post(ornament.Event{Kind: ornament.EventToggle})
	s.accepted(w, "toggle")
}

// Photos handles POST /photos.
func (s *Server) Photos(w http.ResponseWriter, r *http.Request) {
	var body PhotosRequest
	if !decode(w, r, &body) {
		return
	}
	if len(body.URLs) == 0 {
		http.Error(w, "no urls", http.StatusBadRequest)
		return
	}
	s.Mailbox.Post(ornament.Event{Kind: ornament.EventPhotos, Photos: body.URLs})
	s.accepted(w, "photos", slog.Int("count", len(body.URLs)))
}

func (s *Server) accepted(w http.ResponseWriter, what string, attrs ...slog.Attr) {
	if s.Log != nil {
		s.Log.LogAttrs(context.Background(), slog.LevelInfo, "remote "+what, attrs...)
	}
	w.WriteHeader(http.StatusAccepted)
}

// parseGesture accepts only the canonical gesture names.
func parseGesture(name string) (ornament.Gesture, error) {
	g := ornament.ParseGesture(name)
	if g.String() != name {
		return ornament.GestureNone, fmt.Errorf("unknown gesture %q", name)
	}
	return g, nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Serve runs an HTTP server on addr until ctx is cancelled, then shuts it
// down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("remote control listening", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("remote server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("graceful shutdown did not complete", "error", err)
			return srv.Close()
		}
		log.Info("remote control stopped")
		return nil
	}
}
