package main

import (
	"errors"

	legalpdf "github.com/casekit/go-legalpdf"
	"github.com/casekit/go-legalpdf/internal/config"
	"github.com/casekit/go-legalpdf/internal/hints"
)

// hintFor returns an actionable hint for the error, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, legalpdf.ErrOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, legalpdf.ErrInvalidFontSize):
		return hints.ForFontSize()
	case errors.Is(err, legalpdf.ErrInvalidLineSpacing):
		return hints.ForLineSpacing()
	case errors.Is(err, legalpdf.ErrEmptyDocument):
		return hints.ForEmptyDocument()
	}
	return ""
}
