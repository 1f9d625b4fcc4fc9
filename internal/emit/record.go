package emit

import (
	"encoding/json"
	"strings"

	"git.home.luguber.info/inful/minipack/internal/asset"
	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
	"git.home.luguber.info/inful/minipack/internal/graph"
)

// Record is one module as it appears in the bundle.
type Record struct {
	ID   asset.ID
	Path string
	Code string
	// Mapping is the module's specifier to ID map as a JSON object literal
	// with sorted keys.
	Mapping string
}

// Bundle is the data handed to a Renderer.
type Bundle struct {
	EntryID asset.ID
	Records []Record
	// Banner is rendered as a leading comment when non-empty.
	Banner string
}

// NewBundle projects every asset of g into a Record, in graph order.
func NewBundle(g *graph.Graph, banner string) (Bundle, error) {
	records := make([]Record, 0, g.Len())
	for _, a := range g.Assets {
		mapping := a.Mapping
		if mapping == nil {
			mapping = map[string]asset.ID{}
		}
		// encoding/json sorts map keys.
		data, err := json.Marshal(mapping)
		if err != nil {
			return Bundle{}, errors.WrapError(err, errors.CategoryInternal, "failed to encode module mapping").
				WithContext("asset", int(a.ID)).
				Build()
		}
		records = append(records, Record{
			ID:      a.ID,
			Path:    a.Path,
			Code:    a.Code,
			Mapping: string(data),
		})
	}
	return Bundle{
		EntryID: g.EntryID,
		Records: records,
		Banner:  sanitizeBanner(banner),
	}, nil
}

// sanitizeBanner keeps the banner inside a single block comment.
func sanitizeBanner(banner string) string {
	banner = strings.TrimSpace(banner)
	banner = strings.ReplaceAll(banner, "*/", "* /")
	return strings.ReplaceAll(banner, "\n", " ")
}
