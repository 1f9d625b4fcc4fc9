package plugin

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// Context carries what a plugin factory may need from the running build.
type Context struct {
	// Logger is the build's logger. Never nil once passed through Normalize.
	Logger *slog.Logger

	// WorkDir anchors relative paths given in plugin options. It is the
	// directory holding the configuration file.
	WorkDir string

	// Gatherer exposes the build's metrics. Nil when metrics are disabled.
	Gatherer prometheus.Gatherer
}

// Normalize fills unset fields with usable defaults.
func (c Context) Normalize() Context {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.WorkDir == "" {
		c.WorkDir = "."
	}
	return c
}

// ResolvePath anchors a relative path at WorkDir.
func (c Context) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.WorkDir, p)
}

// Options are the free-form settings a plugin receives from configuration.
type Options map[string]any

// String returns the string option key, or def when it is missing.
// A present value of another type is an error.
func (o Options) String(key, def string) (string, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("option %q must be a string, got %T", key, v)
	}
	return s, nil
}

// RequireString returns the string option key and fails when it is missing
// or empty.
func (o Options) RequireString(key string) (string, error) {
	s, err := o.String(key, "")
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("option %q is required", key)
	}
	return s, nil
}

// Bool returns the boolean option key, or def when it is missing.
func (o Options) Bool(key string, def bool) (bool, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("option %q must be a boolean, got %T", key, v)
	}
	return b, nil
}
