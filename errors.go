package legalpdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyDocument = errors.New("document text cannot be empty")

	// Option validation errors.
	ErrInvalidPageSize       = errors.New("invalid page size")
	ErrInvalidFontSize       = errors.New("invalid font size")
	ErrInvalidLineSpacing    = errors.New("invalid line spacing")
	ErrInvalidMargin         = errors.New("invalid margin")
	ErrInvalidNumberPosition = errors.New("invalid page number position")
	ErrInvalidNumberFormat   = errors.New("invalid page number format")

	// Export errors.
	ErrRender = errors.New("document rendering failed")
	ErrOutput = errors.New("cannot write output")
)
