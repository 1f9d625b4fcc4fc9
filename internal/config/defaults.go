package config

import (
	"fmt"
	"strings"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// OutputDefaultApplier handles Output configuration defaults.
type OutputDefaultApplier struct{}

func (o *OutputDefaultApplier) Domain() string { return "output" }

func (o *OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if strings.TrimSpace(cfg.Output.Path) == "" {
		cfg.Output.Path = DefaultOutputPath
	}
	return nil
}

// ResolveDefaultApplier handles Resolve configuration defaults.
type ResolveDefaultApplier struct{}

func (r *ResolveDefaultApplier) Domain() string { return "resolve" }

func (r *ResolveDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Resolve.Extensions) == 0 {
		cfg.Resolve.Extensions = append([]string(nil), DefaultExtensions...)
	} else {
		cfg.Resolve.Extensions = normalizeExtensions(cfg.Resolve.Extensions)
	}

	// Unknown modes are left in place for Validate to report.
	mode := DedupeMode(strings.ToLower(strings.TrimSpace(string(cfg.Resolve.Dedupe))))
	if mode == "" {
		mode = DedupePath
	}
	cfg.Resolve.Dedupe = mode

	return nil
}

// LoggingDefaultApplier handles Logging configuration defaults.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	return nil
}

// CompositeDefaultApplier applies defaults across all configuration domains.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier creates a composite default applier with all domain appliers.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&OutputDefaultApplier{},
			&ResolveDefaultApplier{},
			&LoggingDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// GetApplierByDomain returns a specific domain applier (useful for testing).
func (c *CompositeDefaultApplier) GetApplierByDomain(domain string) DefaultApplier {
	for _, applier := range c.appliers {
		if applier.Domain() == domain {
			return applier
		}
	}
	return nil
}

// normalizeExtensions trims entries, adds a leading dot and drops blanks and
// duplicates. Order is kept since it decides probe order.
func normalizeExtensions(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
