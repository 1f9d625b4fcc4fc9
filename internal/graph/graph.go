// Package graph resolves an entry module and everything it imports into a
// flat, ordered dependency graph.
package graph

import (
	"git.home.luguber.info/inful/minipack/internal/asset"
)

// Graph is the ordered output of one build. Assets are in visitation order
// with the entry first. A Graph is not modified once Build returns it.
type Graph struct {
	Assets  []*asset.Asset
	EntryID asset.ID
}

// Len returns the number of assets.
func (g *Graph) Len() int { return len(g.Assets) }

// Entry returns the entry asset.
func (g *Graph) Entry() *asset.Asset { return g.Asset(g.EntryID) }

// Asset returns the asset with id, or nil.
func (g *Graph) Asset(id asset.ID) *asset.Asset {
	for _, a := range g.Assets {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Edge is one resolved import.
type Edge struct {
	From      asset.ID
	To        asset.ID
	Specifier string
}

// Edges lists every resolved import in asset order, then source order.
// Duplicate specifiers within one asset yield one edge.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, a := range g.Assets {
		seen := make(map[string]struct{}, len(a.Dependencies))
		for _, spec := range a.Dependencies {
			if _, dup := seen[spec]; dup {
				continue
			}
			seen[spec] = struct{}{}
			if to, ok := a.Mapping[spec]; ok {
				edges = append(edges, Edge{From: a.ID, To: to, Specifier: spec})
			}
		}
	}
	return edges
}
