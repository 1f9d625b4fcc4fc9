package graph

import (
	"strings"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
)

// DedupePolicy decides what happens when a file is referenced again.
type DedupePolicy string

const (
	// DedupePath keeps one asset per canonical path. Cycles terminate.
	DedupePath DedupePolicy = "path"
	// DedupeReject dedupes by path and then fails the build on any cycle.
	DedupeReject DedupePolicy = "reject"
	// DedupeNone resolves every reference into a fresh asset. A cycle never
	// terminates on its own; bound it with a context deadline or MaxAssets.
	DedupeNone DedupePolicy = "none"
)

// ParseDedupePolicy maps a configuration value to a policy. Empty means path.
func ParseDedupePolicy(raw string) (DedupePolicy, error) {
	switch p := DedupePolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return DedupePath, nil
	case DedupePath, DedupeReject, DedupeNone:
		return p, nil
	default:
		return "", errors.ConfigError("unknown dedupe policy").
			WithContext("dedupe", raw).
			Build()
	}
}
