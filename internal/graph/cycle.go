package graph

import (
	stderrors "errors"
	"strings"

	"git.home.luguber.info/inful/minipack/internal/asset"
	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
)

// ErrCycle matches every cycle failure with errors.Is.
var ErrCycle = stderrors.New("dependency cycle detected")

// CycleError names the assets forming a cycle. Path starts and ends with the
// same file.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	if e == nil || len(e.Path) == 0 {
		return ErrCycle.Error()
	}
	return ErrCycle.Error() + ": " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// findCycle runs a three-colour DFS from each asset in ID order and returns
// one cycle as a list of asset IDs, or nil.
func findCycle(g *Graph) []asset.ID {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	byID := make(map[asset.ID]*asset.Asset, len(g.Assets))
	for _, a := range g.Assets {
		byID[a.ID] = a
	}
	color := make(map[asset.ID]int, len(g.Assets))
	parent := make(map[asset.ID]asset.ID, len(g.Assets))

	var cycle []asset.ID
	var dfs func(u asset.ID) bool
	dfs = func(u asset.ID) bool {
		color[u] = gray
		a := byID[u]
		for _, spec := range a.Dependencies {
			v, ok := a.Mapping[spec]
			if !ok {
				continue
			}
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				// Back edge u -> v: walk parents from u up to v.
				rev := []asset.ID{v, u}
				for cur := u; cur != v; {
					cur = parent[cur]
					rev = append(rev, cur)
				}
				cycle = make([]asset.ID, len(rev))
				for i := range rev {
					cycle[i] = rev[len(rev)-1-i]
				}
				return true
			}
		}
		color[u] = black
		return false
	}

	for _, a := range g.Assets {
		if color[a.ID] != white {
			continue
		}
		if dfs(a.ID) {
			break
		}
	}
	return cycle
}

// rejectCycles returns a resolution error wrapping *CycleError when g has a cycle.
func rejectCycles(g *Graph) error {
	ids := findCycle(g)
	if ids == nil {
		return nil
	}
	path := make([]string, len(ids))
	for i, id := range ids {
		path[i] = g.Asset(id).Path
	}
	cerr := &CycleError{Path: path}
	return errors.ResolutionError("circular dependency").
		WithCause(cerr).
		WithContext("cycle", strings.Join(path, " -> ")).
		Build()
}
