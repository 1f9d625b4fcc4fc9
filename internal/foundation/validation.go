package foundation

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
)

// Validator checks one value and reports every problem it finds.
type Validator[T any] func(T) ValidationResult

// ValidationResult collects field failures. The zero value is valid.
type ValidationResult struct {
	Errors []FieldError
}

// FieldError names the configuration field that failed and why.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func (fe FieldError) Error() string {
	if fe.Field == "" {
		return fe.Message
	}
	return "field '" + fe.Field + "': " + fe.Message
}

func Valid() ValidationResult { return ValidationResult{} }

func Invalid(errs ...FieldError) ValidationResult { return ValidationResult{Errors: errs} }

func NewValidationError(field, code, message string) FieldError {
	return FieldError{Field: field, Code: code, Message: message}
}

// Valid reports whether no field failed.
func (vr ValidationResult) Valid() bool { return len(vr.Errors) == 0 }

// Combine appends the failures of others to vr.
func (vr ValidationResult) Combine(others ...ValidationResult) ValidationResult {
	out := ValidationResult{Errors: append([]FieldError(nil), vr.Errors...)}
	for _, o := range others {
		out.Errors = append(out.Errors, o.Errors...)
	}
	return out
}

// ToError folds every failure into one validation error, or returns nil.
func (vr ValidationResult) ToError() error {
	if vr.Valid() {
		return nil
	}
	msgs := make([]string, len(vr.Errors))
	for i, fe := range vr.Errors {
		msgs[i] = fe.Error()
	}
	return errors.ValidationError(strings.Join(msgs, "; ")).
		WithContext("fields", len(vr.Errors)).
		Build()
}

// ValidatorChain runs validators in order and keeps all failures.
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

func (vc *ValidatorChain[T]) Add(v Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, v)
	return vc
}

func (vc *ValidatorChain[T]) Validate(value T) ValidationResult {
	var res ValidationResult
	for _, v := range vc.validators {
		res = res.Combine(v(value))
	}
	return res
}

func fail(field, code, message string, value any) ValidationResult {
	fe := NewValidationError(field, code, message)
	fe.Value = value
	return Invalid(fe)
}

// Required rejects blank strings.
func Required(field string) Validator[string] {
	return func(v string) ValidationResult {
		if strings.TrimSpace(v) != "" {
			return Valid()
		}
		return Invalid(NewValidationError(field, "required", "field is required"))
	}
}

// OneOf rejects values outside allowed.
func OneOf[T comparable](field string, allowed []T) Validator[T] {
	set := make(map[T]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(v T) ValidationResult {
		if _, ok := set[v]; ok {
			return Valid()
		}
		return fail(field, "one_of", fmt.Sprintf("field must be one of: %v", allowed), v)
	}
}

// Pattern rejects strings that do not compile as a regular expression.
func Pattern(field string) Validator[string] {
	return func(v string) ValidationResult {
		if _, err := regexp.Compile(v); err != nil {
			return fail(field, "pattern", err.Error(), v)
		}
		return Valid()
	}
}

func NonNegative(field string) Validator[int] {
	return func(v int) ValidationResult {
		if v < 0 {
			return fail(field, "non_negative", "field must not be negative", v)
		}
		return Valid()
	}
}
