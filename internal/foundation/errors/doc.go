// Package errors provides the classified error primitives used across doxybuild.
//
// A ClassifiedError carries a broad category (config, filesystem, git, generator, ...),
// a severity and free-form context. Categories drive the CLI exit code, severity drives
// whether a failure aborts the build or is only reported as a warning.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryGit, "style clone failed").
//		WithContext("url", src.URL).
//		WithCause(originalErr).
//		Build()
package errors
