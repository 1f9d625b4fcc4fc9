// Package build provides the canonical bundling pipeline for minipack.
//
// BuildService runs one build from a loaded configuration: it defines the
// build hooks, applies the configured plugins, resolves the dependency graph
// from the entry module and emits the bundle. The CLI and tests both route
// through it.
package build
