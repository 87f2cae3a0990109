package metrics

import (
	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the job counters exported on /metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	submitted prometheus.Counter
	finished  *prometheus.CounterVec
	duration  prometheus.Histogram
	running   prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "veda",
			Name:      "jobs_submitted_total",
			Help:      "Generation jobs accepted by the API.",
		}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "veda",
			Name:      "jobs_finished_total",
			Help:      "Generation jobs that reached a terminal status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "veda",
			Name:      "job_duration_seconds",
			Help:      "Wall time spent generating one video.",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "veda",
			Name:      "jobs_running",
			Help:      "Generation jobs currently being processed.",
		}),
	}
	reg.MustRegister(m.submitted, m.finished, m.duration, m.running)
	return m
}

func (m *Metrics) JobSubmitted() {
	if m == nil {
		return
	}
	m.submitted.Inc()
}

func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.running.Inc()
}

func (m *Metrics) JobFinished(status models.JobStatus, seconds float64) {
	if m == nil {
		return
	}
	m.running.Dec()
	m.finished.WithLabelValues(string(status)).Inc()
	m.duration.Observe(seconds)
}
