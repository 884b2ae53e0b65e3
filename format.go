package legalpdf

import "regexp"

// Precompiled normalization patterns.
var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// normalizeText prepares raw document text for parsing: line endings become
// \n and runs of blank lines are compressed to one blank line.
func normalizeText(text string) string {
	text = crlfOrCR.ReplaceAllString(text, "\n")
	return multipleBlankLines.ReplaceAllString(text, "\n\n")
}
