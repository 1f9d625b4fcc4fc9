// Package loader runs source text through ordered, pattern-matched transform
// rules before it is parsed.
package loader

import (
	"regexp"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
)

// Transform rewrites module source text.
type Transform interface {
	Name() string
	Transform(source string) (string, error)
}

// TransformFunc adapts a plain function to Transform.
type TransformFunc func(source string) (string, error)

func (f TransformFunc) Name() string { return "func" }

func (f TransformFunc) Transform(source string) (string, error) { return f(source) }

type namedTransform struct {
	name string
	fn   func(string) (string, error)
}

func (n namedTransform) Name() string { return n.name }

func (n namedTransform) Transform(source string) (string, error) { return n.fn(source) }

// Named wraps fn as a Transform reporting name in errors and logs.
func Named(name string, fn func(source string) (string, error)) Transform {
	return namedTransform{name: name, fn: fn}
}

// Rule binds a path pattern to an ordered list of transforms.
type Rule struct {
	Test *regexp.Regexp
	Use  []Transform
}

// Pipeline applies rules to module sources.
type Pipeline struct {
	rules []Rule
}

// NewPipeline returns a pipeline over rules, evaluated in the given order.
func NewPipeline(rules ...Rule) *Pipeline {
	return &Pipeline{rules: append([]Rule(nil), rules...)}
}

// Rules returns a copy of the pipeline's rules.
func (p *Pipeline) Rules() []Rule {
	if p == nil {
		return nil
	}
	return append([]Rule(nil), p.rules...)
}

// Apply runs source through every rule whose Test matches path. Matching
// rules apply cumulatively in declaration order. Inside a rule the Use list
// runs last to first, so [A, B] applies B and then A.
func (p *Pipeline) Apply(path, source string) (string, error) {
	if p == nil {
		return source, nil
	}
	out := source
	for i, rule := range p.rules {
		if rule.Test == nil || !rule.Test.MatchString(path) {
			continue
		}
		for j := len(rule.Use) - 1; j >= 0; j-- {
			t := rule.Use[j]
			next, err := t.Transform(out)
			if err != nil {
				return "", errors.LoaderError("loader transform failed").
					WithCause(err).
					WithContext("rule", i).
					WithContext("pattern", rule.Test.String()).
					WithContext("loader", t.Name()).
					WithContext("path", path).
					Build()
			}
			out = next
		}
	}
	return out, nil
}
