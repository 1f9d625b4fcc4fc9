package errors

// ErrorBuilder assembles a ClassifiedError step by step.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts a non-fatal error in category.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  ErrorContext{},
	}}
}

// WrapError starts an error in category caused by err.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.Set(key, value)
	return b
}

func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder   { return b.WithSeverity(SeverityFatal) }
func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }

// Build returns the finished error. The builder may be reused afterwards
// without affecting it.
func (b *ErrorBuilder) Build() *ClassifiedError {
	out := b.err
	out.context = b.err.context.clone()
	return &out
}

// One constructor per category. All are fatal except HookError, whose
// severity is decided by the hook that raised it.

func ConfigError(message string) *ErrorBuilder     { return NewError(CategoryConfig, message).Fatal() }
func ValidationError(message string) *ErrorBuilder { return NewError(CategoryValidation, message).Fatal() }
func NotFoundError(message string) *ErrorBuilder   { return NewError(CategoryNotFound, message).Fatal() }
func FileSystemError(message string) *ErrorBuilder { return NewError(CategoryFileSystem, message).Fatal() }
func LoaderError(message string) *ErrorBuilder     { return NewError(CategoryLoader, message).Fatal() }
func ParseError(message string) *ErrorBuilder      { return NewError(CategoryParse, message).Fatal() }
func TransformError(message string) *ErrorBuilder  { return NewError(CategoryTransform, message).Fatal() }
func ResolutionError(message string) *ErrorBuilder { return NewError(CategoryResolution, message).Fatal() }
func EmitError(message string) *ErrorBuilder       { return NewError(CategoryEmit, message).Fatal() }
func HookError(message string) *ErrorBuilder       { return NewError(CategoryHook, message) }
func PluginError(message string) *ErrorBuilder     { return NewError(CategoryPlugin, message).Fatal() }
func RuntimeError(message string) *ErrorBuilder    { return NewError(CategoryRuntime, message).Fatal() }
func InternalError(message string) *ErrorBuilder   { return NewError(CategoryInternal, message).Fatal() }
