package metrics

import (
	"testing"

	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range m.GetLabel() {
				name += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}
			switch {
			case m.GetCounter() != nil:
				out[name] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[name] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[name] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.JobSubmitted()
	m.JobSubmitted()
	m.JobStarted()
	m.JobStarted()
	m.JobFinished(models.JobStatusCompleted, 12.5)

	got := gather(t, reg)
	assert.Equal(t, 2.0, got["veda_jobs_submitted_total"])
	assert.Equal(t, 1.0, got["veda_jobs_running"])
	assert.Equal(t, 1.0, got["veda_jobs_finished_total{status=completed}"])
	assert.Equal(t, 1.0, got["veda_job_duration_seconds"])
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.JobSubmitted()
		m.JobStarted()
		m.JobFinished(models.JobStatusFailed, 1)
	})
}
