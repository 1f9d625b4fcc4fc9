package errors

import "maps"

// ErrorCategory groups failures by the build step that raised them.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// Build pipeline.
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryLoader     ErrorCategory = "loader"
	CategoryParse      ErrorCategory = "parse"
	CategoryTransform  ErrorCategory = "transform"
	CategoryResolution ErrorCategory = "resolution"
	CategoryEmit       ErrorCategory = "emit"

	// Extension points.
	CategoryHook   ErrorCategory = "hook"
	CategoryPlugin ErrorCategory = "plugin"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// buildCategories are the categories a user fixes by editing sources or rules.
var buildCategories = map[ErrorCategory]bool{
	CategoryFileSystem: true,
	CategoryLoader:     true,
	CategoryParse:      true,
	CategoryTransform:  true,
	CategoryResolution: true,
	CategoryEmit:       true,
}

// ErrorSeverity says whether the build can go on after the error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
)

// ErrorContext carries the paths, specifiers and names attached to an error.
type ErrorContext map[string]any

// Set stores value under key, allocating the map when needed.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = ErrorContext{}
	}
	c[key] = value
	return c
}

func (c ErrorContext) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// GetString returns the value under key when it is a string.
func (c ErrorContext) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

func (c ErrorContext) clone() ErrorContext {
	out := make(ErrorContext, len(c))
	maps.Copy(out, c)
	return out
}
