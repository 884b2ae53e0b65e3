// Package fileutil provides file and path helpers for the CLI.
package fileutil

import (
	"os"
	"path/filepath"
	"strings"
)

// InputExtensions are the document source extensions the CLI accepts.
var InputExtensions = []string{".txt", ".md", ".markdown"}

// IsInputFile returns true if the path has a recognized document extension.
func IsInputFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range InputExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

// PDFPath derives the output PDF path for an input document. With a
// non-empty outputDir the file is relocated there; otherwise it sits next
// to the source.
func PDFPath(inputPath, outputDir string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)) + ".pdf"
	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}
	return filepath.Join(outputDir, base)
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than
// a name. A string containing path separators (/, \) is treated as a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
