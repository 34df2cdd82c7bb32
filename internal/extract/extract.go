// Package extract converts uploaded document bytes into plain text,
// dispatching on the file extension.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// AllowedExtensions is the set of extensions the extractor understands.
var AllowedExtensions = []string{".pdf", ".docx", ".txt", ".md"}

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyDocument     = errors.New("could not extract text from document")
)

// IsAllowed reports whether the filename carries a supported extension.
func IsAllowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Text extracts plain text from the document bytes. It fails with
// ErrUnsupportedFormat for unknown extensions and ErrEmptyDocument when
// extraction yields only whitespace; callers must not chunk an empty result.
func Text(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = pdfText(data)
	case ".docx":
		text, err = docxText(data)
	case ".txt", ".md":
		text = string(data)
	default:
		return "", fmt.Errorf("%w %q, allowed: %s",
			ErrUnsupportedFormat, ext, strings.Join(AllowedExtensions, ", "))
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}
