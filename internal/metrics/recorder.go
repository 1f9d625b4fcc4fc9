package metrics

import "time"

// ResultLabel is the "result" label of the stage counter.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder receives build, stage, graph and hook measurements.
type Recorder interface {
	// Build service.
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string)

	// Graph builder.
	ObserveResolveDuration(d time.Duration)
	IncAssetsResolved()

	// Emitter.
	ObserveBundleBytes(n int)

	// Hook registry.
	IncHookFailure(hook string)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) ObserveResolveDuration(time.Duration)       {}
func (NoopRecorder) IncAssetsResolved()                         {}
func (NoopRecorder) ObserveBundleBytes(int)                     {}
func (NoopRecorder) IncHookFailure(string)                      {}
