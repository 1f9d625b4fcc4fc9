package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/minipack/internal/config"
	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
)

var builtins = map[string]Transform{
	"json":     Named("json", jsonModule),
	"text":     Named("text", textModule),
	"markdown": Named("markdown", markdownModule),
	"unicode":  Named("unicode", normalizeUnicode),
}

// Lookup returns the built-in loader registered under name.
func Lookup(name string) (Transform, error) {
	t, ok := builtins[name]
	if !ok {
		return nil, errors.ConfigError("unknown loader").
			WithContext("loader", name).
			WithContext("available", Names()).
			Build()
	}
	return t, nil
}

// Names lists the built-in loaders in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FromConfig compiles configured rules into a Pipeline of built-in loaders.
func FromConfig(rules []config.RuleConfig) (*Pipeline, error) {
	compiled := make([]Rule, 0, len(rules))
	for i, rc := range rules {
		re, err := regexp.Compile(rc.Test)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "invalid rule pattern").
				WithContext("rule", i).
				WithContext("pattern", rc.Test).
				Fatal().
				Build()
		}
		use := make([]Transform, 0, len(rc.Use))
		for _, name := range rc.Use {
			t, err := Lookup(name)
			if err != nil {
				return nil, err
			}
			use = append(use, t)
		}
		compiled = append(compiled, Rule{Test: re, Use: use})
	}
	return NewPipeline(compiled...), nil
}

// jsonModule turns a JSON document into a module whose default export is the
// parsed value.
func jsonModule(source string) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(source)); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	return "export default " + buf.String() + ";", nil
}

// textModule exports the raw source as a string.
func textModule(source string) (string, error) {
	return exportString(source)
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func markdownModule(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return exportString(buf.String())
}

// normalizeUnicode strips a byte order mark, decoding UTF-16 when one is
// present, and returns NFC-normalized text.
func normalizeUnicode(source string) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.String(dec, source)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return norm.NFC.String(out), nil
}

func exportString(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return "export default " + string(b) + ";", nil
}
