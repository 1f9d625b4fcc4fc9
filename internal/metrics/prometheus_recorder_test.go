package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("resolve_graph", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("resolve_graph", ResultSuccess)
	pr.IncBuildOutcome("success")
	pr.ObserveResolveDuration(2 * time.Millisecond)
	pr.IncAssetsResolved()
	pr.IncAssetsResolved()
	pr.ObserveBundleBytes(2048)
	pr.IncHookFailure("afterEmit")

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)

	require.InDelta(t, 2, testutil.ToFloat64(pr.assetsResolved), 0)
	require.InDelta(t, 2048, testutil.ToFloat64(pr.bundleBytes), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.hookFailures.WithLabelValues("afterEmit")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.buildOutcome.WithLabelValues("success")), 0)
}

func TestPrometheusRecorderNilRegistry(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncStageResult("emit", ResultFatal)
	require.InDelta(t, 1, testutil.ToFloat64(pr.stageResults.WithLabelValues("emit", "fatal")), 0)
}

func TestPrometheusRecorderRegistersOnce(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg)
	require.Panics(t, func() { NewPrometheusRecorder(reg) })
}
