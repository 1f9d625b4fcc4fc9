package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// countingRecorder overrides only what the test needs.
type countingRecorder struct {
	NoopRecorder
	stages map[string]ResultLabel
	bytes  int
}

func (c *countingRecorder) IncStageResult(stage string, result ResultLabel) {
	c.stages[stage] = result
}

func (c *countingRecorder) ObserveBundleBytes(n int) { c.bytes = n }

func TestEmbeddedNoopFillsRecorder(t *testing.T) {
	c := &countingRecorder{stages: map[string]ResultLabel{}}
	var r Recorder = c

	r.ObserveStageDuration("emit", time.Millisecond)
	r.IncStageResult("emit", ResultSuccess)
	r.IncStageResult("resolve_graph", ResultCanceled)
	r.ObserveBundleBytes(128)
	r.IncHookFailure("afterEmit")

	require.Equal(t, map[string]ResultLabel{"emit": ResultSuccess, "resolve_graph": ResultCanceled}, c.stages)
	require.Equal(t, 128, c.bytes)
}

func TestNoopRecorder(t *testing.T) {
	require.NotPanics(t, func() {
		var r Recorder = NoopRecorder{}
		r.IncBuildOutcome("failed")
		r.ObserveBuildDuration(time.Second)
		r.ObserveResolveDuration(time.Millisecond)
		r.IncAssetsResolved()
	})
}
