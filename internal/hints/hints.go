// Package hints provides actionable error hints for common failure
// scenarios. Hints are formatted consistently as "\n  hint: <text>" for
// appending to error messages.
package hints

import "strings"

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating a config in ~/.config/go-legalpdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-legalpdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output write errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForFontSize returns hints for font size validation errors.
func ForFontSize() string {
	return format("valid sizes are 8 to 24 points")
}

// ForLineSpacing returns hints for line spacing validation errors.
func ForLineSpacing() string {
	return format("valid values: single, one-half, double")
}

// ForEmptyDocument returns hints for empty input errors.
func ForEmptyDocument() string {
	return format("the input file has no text content")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
