package main

import (
	"errors"
	"os"

	legalpdf "github.com/casekit/go-legalpdf"
	"github.com/casekit/go-legalpdf/internal/config"
)

// Exit codes for the legalpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, custom codes < 126.
const (
	ExitSuccess = 0 // Successful export
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, unwritable output
	ExitRender  = 4 // Rendering errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must wrap with
// fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Rendering errors (exit 4)
	if errors.Is(err, legalpdf.ErrRender) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, legalpdf.ErrOutput) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, legalpdf.ErrEmptyDocument) ||
		errors.Is(err, legalpdf.ErrInvalidPageSize) ||
		errors.Is(err, legalpdf.ErrInvalidFontSize) ||
		errors.Is(err, legalpdf.ErrInvalidLineSpacing) ||
		errors.Is(err, legalpdf.ErrInvalidMargin) ||
		errors.Is(err, legalpdf.ErrInvalidNumberPosition) ||
		errors.Is(err, legalpdf.ErrInvalidNumberFormat) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrAmbiguousOutput) {
		return ExitUsage
	}

	return ExitGeneral
}
