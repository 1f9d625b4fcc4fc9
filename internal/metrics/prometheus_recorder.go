package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "minipack"

// PrometheusRecorder records build metrics into a Prometheus registry.
type PrometheusRecorder struct {
	stageDuration   *prom.HistogramVec
	stageResults    *prom.CounterVec
	buildDuration   prom.Histogram
	buildOutcome    *prom.CounterVec
	resolveDuration prom.Histogram
	assetsResolved  prom.Counter
	bundleBytes     prom.Gauge
	hookFailures    *prom.CounterVec
}

// NewPrometheusRecorder registers the minipack collectors on reg. A nil reg
// gets a private registry. Registering twice on the same registry panics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace, Name: "stage_duration_seconds",
			Help: "Time spent in each build stage.",
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace, Name: "stage_results_total",
			Help: "Build stages by stage and result.",
		}, []string{"stage", "result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace, Name: "build_duration_seconds",
			Help: "Wall time of a whole build.",
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace, Name: "build_outcomes_total",
			Help: "Finished builds by status.",
		}, []string{"outcome"}),
		resolveDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace, Name: "asset_resolve_duration_seconds",
			Help:    "Time to read, load, parse and transform one asset.",
			Buckets: prom.ExponentialBuckets(0.0005, 2, 12),
		}),
		assetsResolved: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace, Name: "assets_resolved_total",
			Help: "Assets added to dependency graphs.",
		}),
		bundleBytes: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace, Name: "bundle_bytes",
			Help: "Size of the last emitted bundle.",
		}),
		hookFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace, Name: "hook_tap_failures_total",
			Help: "Failed hook taps by hook.",
		}, []string{"hook"}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.buildDuration, pr.buildOutcome,
		pr.resolveDuration, pr.assetsResolved, pr.bundleBytes, pr.hookFailures)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObserveResolveDuration(d time.Duration) {
	p.resolveDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncAssetsResolved() { p.assetsResolved.Inc() }

func (p *PrometheusRecorder) ObserveBundleBytes(n int) { p.bundleBytes.Set(float64(n)) }

func (p *PrometheusRecorder) IncHookFailure(hook string) {
	p.hookFailures.WithLabelValues(hook).Inc()
}
