package emit

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"text/template"
)

//go:embed runtime.js.tmpl
var runtimeTemplate string

// Renderer turns a Bundle into the emitted artifact.
type Renderer interface {
	Render(w io.Writer, b Bundle) error
}

// TemplateRenderer renders a Bundle through a text/template.
type TemplateRenderer struct {
	tpl *template.Template
}

// NewTemplateRenderer parses body. Missing keys are errors.
func NewTemplateRenderer(name, body string) (*TemplateRenderer, error) {
	tpl, err := template.New(name).Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

// DefaultRenderer returns the renderer for the embedded module runtime.
func DefaultRenderer() *TemplateRenderer {
	r, err := NewTemplateRenderer("runtime", runtimeTemplate)
	if err != nil {
		panic(err)
	}
	return r
}

// Render implements Renderer.
func (r *TemplateRenderer) Render(w io.Writer, b Bundle) error {
	if err := r.tpl.Execute(w, b); err != nil {
		return fmt.Errorf("render %s template: %w", r.tpl.Name(), err)
	}
	return nil
}

// RenderString renders b with r into a string.
func RenderString(r Renderer, b Bundle) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, b); err != nil {
		return "", err
	}
	return buf.String(), nil
}
