// Package telemetry exports scene metrics to Prometheus.
package telemetry

import (
	"net/http"

	"github.com/phanxgames/ornament"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var phases = []ornament.Phase{
	ornament.PhaseTree, ornament.PhaseBlooming, ornament.PhaseNebula, ornament.PhaseCollapsing,
}

// Metrics implements ornament.Observer and records scene activity on its own
// registry.
type Metrics struct {
	registry *prometheus.Registry

	transitions *prometheus.CounterVec
	phase       *prometheus.GaugeVec
	progress    prometheus.Gauge
	particles   prometheus.Gauge
	ticks       prometheus.Counter
	tickDelta   prometheus.Histogram
	frameTime   prometheus.Histogram
}

var _ ornament.Observer = (*Metrics)(nil)

// New creates and registers the scene metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ornament_phase_transitions_total",
				Help: "Total number of phase changes",
			},
			[]string{"from", "to"},
		),
		phase: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ornament_phase",
				Help: "1 for the current phase, 0 otherwise",
			},
			[]string{"phase"},
		),
		progress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ornament_transition_progress",
			Help: "Blend between tree (0) and nebula (1)",
		}),
		particles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ornament_particles",
			Help: "Particles updated per tick",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ornament_ticks_total",
			Help: "Total number of scene updates",
		}),
		tickDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ornament_tick_delta_seconds",
			Help:    "Time step passed to each scene update",
			Buckets: []float64{1.0 / 240, 1.0 / 120, 1.0 / 60, 1.0 / 30, 1.0 / 15, 0.25},
		}),
		frameTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ornament_tick_duration_seconds",
			Help:    "Wall time spent in a scene update (debug mode only)",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 10),
		}),
	}
	m.registry.MustRegister(m.transitions, m.phase, m.progress, m.particles, m.ticks, m.tickDelta, m.frameTime)
	m.setPhase(ornament.PhaseTree)
	return m
}

// PhaseChanged implements ornament.Observer.
func (m *Metrics) PhaseChanged(from, to ornament.Phase) {
	m.transitions.WithLabelValues(from.String(), to.String()).Inc()
	m.setPhase(to)
}

// TickCompleted implements ornament.Observer.
func (m *Metrics) TickCompleted(st ornament.TickStats) {
	m.ticks.Inc()
	m.progress.Set(st.Progress)
	m.particles.Set(float64(st.Particles))
	m.tickDelta.Observe(st.Delta)
	if st.FrameTime > 0 {
		m.frameTime.Observe(st.FrameTime.Seconds())
	}
}

func (m *Metrics) setPhase(cur ornament.Phase) {
	for _, p := range phases {
		v := 0.0
		if p == cur {
			v = 1
		}
		m.phase.WithLabelValues(p.String()).Set(v)
	}
}

// Registry returns the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
