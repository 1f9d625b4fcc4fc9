package config

import (
	"fmt"

	"git.home.luguber.info/inful/minipack/internal/foundation"
)

// Validate checks the configuration after defaults have been applied. Every
// problem found is reported in a single validation error.
func (c *Config) Validate() error {
	result := foundation.Required("entry")(c.Entry).
		Combine(foundation.Required("output.path")(c.Output.Path)).
		Combine(foundation.OneOf("resolve.dedupe", DedupeModes)(c.Resolve.Dedupe)).
		Combine(foundation.NonNegative("resolve.max_assets")(c.Resolve.MaxAssets)).
		Combine(foundation.OneOf("logging.level", LogLevels)(c.Logging.Level)).
		Combine(foundation.OneOf("logging.format", LogFormats)(c.Logging.Format))

	for i, rule := range c.Module.Rules {
		field := fmt.Sprintf("module.rules[%d]", i)
		result = result.Combine(foundation.NewValidatorChain(
			foundation.Required(field+".test"),
			foundation.Pattern(field+".test"),
		).Validate(rule.Test))
		if len(rule.Use) == 0 {
			result = result.Combine(foundation.Invalid(
				foundation.NewValidationError(field+".use", "required", "rule must name at least one loader"),
			))
		}
		for j, name := range rule.Use {
			result = result.Combine(foundation.Required(fmt.Sprintf("%s.use[%d]", field, j))(name))
		}
	}

	for i, p := range c.Plugins {
		result = result.Combine(foundation.Required(fmt.Sprintf("plugins[%d].name", i))(p.Name))
	}

	return result.ToError()
}
