// Package errors defines the ClassifiedError type every minipack build step
// returns, a builder for it, and the CLI adapter that maps it to exit codes.
//
// Errors carry a category naming the failing step (loader, parse,
// resolution, emit, hook, ...) and a context map naming what failed:
//
//	return errors.ResolutionError("cannot resolve import").
//		WithContext("specifier", spec).
//		WithContext("importer", importer).
//		WithCause(err).
//		Build()
//
// Callers branch on HasCategory rather than on message text.
package errors
