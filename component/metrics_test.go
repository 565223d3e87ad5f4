package component

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fibercore/component/fiber"
)

func counterValue(t *testing.T, c prometheus.Collector, labels prometheus.Labels) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 8)
	c.Collect(ch)
	close(ch)
	for m := range ch {
		var pb dto.Metric
		require.NoError(t, m.Write(&pb))
		match := true
		for _, pair := range pb.GetLabel() {
			if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
				match = false
			}
		}
		if match {
			return pb.GetCounter().GetValue()
		}
	}
	return 0
}

func TestPrometheusMetrics_RecordsConstructionOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(reg)

	c := New(context.Background(), nil, []string{"a", "b"},
		WithRuntime(fiber.NewGoroutineRuntime()),
		WithMetrics(metrics),
	)

	boom := errors.New("boom")
	_ = c.AddComponents(context.Background(), map[string]Factory{
		"a": staticFactory("ok"),
		"b": func(ctx context.Context, c *Context) (any, error) { return nil, boom },
	})

	assert.Equal(t, float64(1), counterValue(t, metrics.constructErrors, prometheus.Labels{"component": "b"}))
	assert.Equal(t, float64(0), counterValue(t, metrics.constructErrors, prometheus.Labels{"component": "a"}))
}

func TestPrometheusMetrics_RecordsPhaseOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(reg)

	c := New(context.Background(), nil, []string{"a"},
		WithRuntime(fiber.NewGoroutineRuntime()),
		WithMetrics(metrics),
	)
	require.NoError(t, c.AddComponents(context.Background(), map[string]Factory{"a": staticFactory("ok")}))
	require.NoError(t, c.OnAllComponentsLoaded(context.Background()))

	assert.Equal(t, float64(0), counterValue(t, metrics.phaseErrors, prometheus.Labels{"component": "a", "phase": "OnAllComponentsLoaded"}))
}
