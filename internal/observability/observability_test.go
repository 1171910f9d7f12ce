package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_DisabledIsNoop(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "linksphere-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	span, ctx := StartSpan(context.Background(), "EngagementService.Like", UserAttr(1), PostAttr(2))
	assert.NotNil(t, ctx)
	span.End(errors.New("recorded"))
}

func TestEngagementTransitionsCounter(t *testing.T) {
	before := testutil.ToFloat64(EngagementTransitions.WithLabelValues("like", "activate", Outcome(true)))
	EngagementTransitions.WithLabelValues("like", "activate", Outcome(true)).Inc()
	after := testutil.ToFloat64(EngagementTransitions.WithLabelValues("like", "activate", OutcomeApplied))
	assert.Equal(t, before+1, after)
	assert.Equal(t, OutcomeNoop, Outcome(false))
}

func TestInitTracing_UnknownExporter(t *testing.T) {
	_, err := InitTracing(TracingConfig{ServiceName: "linksphere-test", Enabled: true, Exporter: "jaeger"})
	assert.ErrorContains(t, err, "jaeger")
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "root:AlwaysOnSampler"},
		{2, "root:AlwaysOnSampler"},
		{0, "root:AlwaysOffSampler"},
		{0.25, "root:TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Contains(t, samplerFor(tt.ratio).Description(), tt.want)
	}
}
