package emit

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
	"git.home.luguber.info/inful/minipack/internal/logfields"
	"git.home.luguber.info/inful/minipack/internal/observability"
)

// OutputTarget carries the bundle destination through the emitOutputPath
// hook. Only the first ChangeOutputPath call of a build takes effect.
type OutputTarget struct {
	ctx         context.Context
	mu          sync.Mutex
	defaultPath string
	path        string
	changed     bool
}

// NewOutputTarget creates a target that points at defaultPath.
func NewOutputTarget(ctx context.Context, defaultPath string) *OutputTarget {
	if ctx == nil {
		ctx = context.Background()
	}
	return &OutputTarget{ctx: ctx, defaultPath: defaultPath, path: defaultPath}
}

// DefaultPath returns the destination the build started with.
func (t *OutputTarget) DefaultPath() string { return t.defaultPath }

// Path returns the current destination.
func (t *OutputTarget) Path() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

// Changed reports whether the destination was overridden.
func (t *OutputTarget) Changed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.changed
}

// ChangeOutputPath overrides the destination. An empty path and any change
// after the first are rejected, logged and returned as errors.
func (t *OutputTarget) ChangeOutputPath(p string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var err error
	switch {
	case p == "":
		err = errors.EmitError("output path override is empty").Build()
	case t.changed:
		err = errors.EmitError("output path already overridden").
			WithContext("current", t.path).
			WithContext("rejected", p).
			Build()
	}
	if err != nil {
		observability.WarnContext(t.ctx, "Output path override rejected",
			logfields.Output(t.path),
			slog.String("rejected", p),
			logfields.Error(err))
		return err
	}

	t.path = p
	t.changed = true
	observability.DebugContext(t.ctx, "Output path overridden",
		slog.String("default", t.defaultPath),
		logfields.Output(p))
	return nil
}
