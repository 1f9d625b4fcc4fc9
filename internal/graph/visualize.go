package graph

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// VisualizationFormat represents the output format for graph visualization.
type VisualizationFormat string

const (
	FormatText    VisualizationFormat = "text"
	FormatMermaid VisualizationFormat = "mermaid"
	FormatDOT     VisualizationFormat = "dot"
	FormatJSON    VisualizationFormat = "json"
)

// SupportedFormats lists every visualization format.
func SupportedFormats() []VisualizationFormat {
	return []VisualizationFormat{FormatText, FormatMermaid, FormatDOT, FormatJSON}
}

// Visualize renders g in format. Module paths are shown relative to baseDir
// when possible.
func Visualize(g *Graph, format VisualizationFormat, baseDir string) (string, error) {
	if g == nil {
		return "", fmt.Errorf("graph is nil")
	}
	switch format {
	case FormatText:
		return visualizeText(g, baseDir), nil
	case FormatMermaid:
		return visualizeMermaid(g, baseDir), nil
	case FormatDOT:
		return visualizeDOT(g, baseDir), nil
	case FormatJSON:
		return visualizeJSON(g, baseDir)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func displayPath(baseDir, p string) string {
	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, p); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(p)
}

// visualizeText lists every module with its resolved imports.
func visualizeText(g *Graph, baseDir string) string {
	var sb strings.Builder

	sb.WriteString("Module Graph\n")
	sb.WriteString("============\n\n")

	byFrom := edgesByFrom(g)
	for _, a := range g.Assets {
		marker := ""
		if a.ID == g.EntryID {
			marker = " (entry)"
		}
		fmt.Fprintf(&sb, "[%d] %s%s\n", a.ID, displayPath(baseDir, a.Path), marker)

		edges := byFrom[int(a.ID)]
		for i, e := range edges {
			prefix := "├──"
			if i == len(edges)-1 {
				prefix = "└──"
			}
			fmt.Fprintf(&sb, "    %s %s → [%d]\n", prefix, e.Specifier, e.To)
		}
	}

	fmt.Fprintf(&sb, "\nTotal: %d modules, %d imports\n", g.Len(), len(g.Edges()))
	return sb.String()
}

// visualizeMermaid creates a Mermaid flowchart.
func visualizeMermaid(g *Graph, baseDir string) string {
	var sb strings.Builder

	sb.WriteString("```mermaid\n")
	sb.WriteString("graph TD\n")
	for _, a := range g.Assets {
		fmt.Fprintf(&sb, "    m%d[\"%s\"]\n", a.ID, mermaidEscape(displayPath(baseDir, a.Path)))
	}
	sb.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&sb, "    m%d -->|\"%s\"| m%d\n", e.From, mermaidEscape(e.Specifier), e.To)
	}
	sb.WriteString("```\n")
	return sb.String()
}

func mermaidEscape(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}

// visualizeDOT creates a Graphviz DOT diagram.
func visualizeDOT(g *Graph, baseDir string) string {
	var sb strings.Builder

	sb.WriteString("digraph ModuleGraph {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [shape=box, style=rounded];\n\n")
	for _, a := range g.Assets {
		attrs := ""
		if a.ID == g.EntryID {
			attrs = ", style=\"rounded,bold\""
		}
		fmt.Fprintf(&sb, "    m%d [label=%q%s];\n", a.ID, displayPath(baseDir, a.Path), attrs)
	}
	sb.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&sb, "    m%d -> m%d [label=%q];\n", e.From, e.To, e.Specifier)
	}
	sb.WriteString("}\n")
	return sb.String()
}

type jsonModule struct {
	ID      int          `json:"id"`
	Path    string       `json:"path"`
	Imports []jsonImport `json:"imports"`
}

type jsonImport struct {
	Specifier string `json:"specifier"`
	ID        int    `json:"id"`
}

// visualizeJSON creates a JSON representation of the graph.
func visualizeJSON(g *Graph, baseDir string) (string, error) {
	doc := struct {
		Entry   int          `json:"entry"`
		Modules []jsonModule `json:"modules"`
	}{Entry: int(g.EntryID), Modules: []jsonModule{}}

	byFrom := edgesByFrom(g)
	for _, a := range g.Assets {
		m := jsonModule{ID: int(a.ID), Path: displayPath(baseDir, a.Path), Imports: []jsonImport{}}
		for _, e := range byFrom[int(a.ID)] {
			m.Imports = append(m.Imports, jsonImport{Specifier: e.Specifier, ID: int(e.To)})
		}
		doc.Modules = append(doc.Modules, m)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode graph: %w", err)
	}
	return string(data) + "\n", nil
}

func edgesByFrom(g *Graph) map[int][]Edge {
	out := make(map[int][]Edge)
	for _, e := range g.Edges() {
		out[int(e.From)] = append(out[int(e.From)], e)
	}
	return out
}
