// Package errors provides the classified error primitives used across docnav.
//
// A ClassifiedError carries a category, a severity and a retry hint next to
// its message and cause. Packages return plain wrapped errors internally and
// classify them at their boundary; the CLI and HTTP adapters turn a
// classification into an exit code or a status code.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryDiagram, "diagram render failed").
//		WithContext("id", id).
//		Build()
package errors
