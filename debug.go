package ornament

import (
	"log/slog"
	"time"
)

// TickStats holds per-tick metrics. FrameTime is only measured in debug
// mode.
type TickStats struct {
	Tick      uint64
	Delta     float64
	Phase     Phase
	Progress  float64
	Particles int
	Events    int
	FrameTime time.Duration
}

// Observer receives scene notifications from inside the tick. Calls are made
// synchronously on the tick goroutine.
type Observer interface {
	PhaseChanged(from, to Phase)
	TickCompleted(stats TickStats)
}

// debugLog writes per-tick stats at debug level.
func (s *Scene) debugLog(stats TickStats) {
	if !s.debug {
		return
	}
	s.log.Debug("tick",
		slog.Uint64("tick", stats.Tick),
		slog.Float64("dt", stats.Delta),
		slog.String("phase", stats.Phase.String()),
		slog.Float64("progress", stats.Progress),
		slog.Int("particles", stats.Particles),
		slog.Int("pending", stats.Events),
		slog.Duration("frame", stats.FrameTime),
	)
}

// debugMaxDelta is the largest dt accepted without a warning. Longer steps
// usually mean the host stalled.
const debugMaxDelta = 0.25

func (s *Scene) debugCheckDelta(dt float64) {
	if s.debug && dt > debugMaxDelta {
		s.log.Warn("long tick", slog.Float64("dt", dt), slog.Float64("threshold", debugMaxDelta))
	}
}
