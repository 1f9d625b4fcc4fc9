// Package metrics records build timings and counts.
//
// The build service, graph builder, emitter and hook registry each hold a
// Recorder. It defaults to NoopRecorder; the CLI installs a
// PrometheusRecorder when a metrics file is requested, and the "metrics"
// plugin writes the registry out in textfile format after the build.
package metrics
