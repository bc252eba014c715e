package scheduler

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/weft/pkg/fiber"
)

func TestMetricsOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithNamespace("app"),
		WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"tree": "main"}),
		WithBuckets([]float64{0.001, 0.01}),
	)
	m.recordUnit(WorkFiber)
	m.recordEffect(fiber.EffectUpdate)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	var tree string
	for _, f := range families {
		names[f.GetName()] = true
		if f.GetName() != "app_ui_effects_total" {
			continue
		}
		for _, l := range f.GetMetric()[0].GetLabel() {
			if l.GetName() == "tree" {
				tree = l.GetValue()
			}
		}
	}
	assert.True(t, names["app_ui_work_units_total"])
	assert.True(t, names["app_ui_effects_total"])
	assert.True(t, names["app_ui_walk_duration_seconds"])
	assert.Equal(t, "main", tree)
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.recordUnit(WorkMount)
		m.recordSlice()
		m.recordStep()
		m.recordEffect(fiber.EffectCreate)
		m.recordCommit(0, 0)
		m.setQueueDepth(3)
	})
}
