// Package errors provides the centralized error taxonomy for buildplan.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package errors

import (
	"errors"
	"fmt"
)

// IoError: filesystem access failed.
var (
	ErrPathNotFound  = errors.New("specified path does not exist")
	ErrNotADirectory = errors.New("specified path is not a directory")
	ErrAccessDenied  = errors.New("access denied to path")
	ErrReadFailed    = errors.New("failed to read file")
)

// ParseError: JSON/TOML/regex/semver parse failed on user-supplied content.
var (
	ErrParseJSON   = errors.New("failed to parse JSON")
	ErrParseTOML   = errors.New("failed to parse TOML")
	ErrParseSemver = errors.New("failed to parse semver constraint")
)

// PathError: path manipulation violated the source-root invariant.
var (
	ErrOutsideRoot = errors.New("path escapes the source root")
)

// ProviderError: provider-specific precondition violation.
var (
	ErrProviderDetect = errors.New("provider detection failed")
)

// PlanError: plan-file schema mismatch.
var (
	ErrPlanFileInvalid = errors.New("plan file is invalid")
	ErrPlanFileSchema  = errors.New("plan file does not match the expected schema")
)

// ErrBuildNotImplemented marks the seam where an external image builder
// would plug in; the engine itself never executes a plan.
var ErrBuildNotImplemented = errors.New("image building is not implemented by this engine; hand the plan to an external builder")

// IO wraps an I/O failure with the operation and path that caused it.
func IO(op, path string, cause error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrReadFailed, op, path, cause)
}

// Provider wraps a provider failure with the provider name that caused it.
func Provider(name string, cause error) error {
	return fmt.Errorf("%w: provider %q: %v", ErrProviderDetect, name, cause)
}

// Parse wraps a parse failure with the file that caused it.
func Parse(base error, file string, cause error) error {
	return fmt.Errorf("%w: %s: %v", base, file, cause)
}
