package chunker

import (
	"errors"
	"strings"
)

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

// ErrInvalidChunkConfig is returned when the window configuration would make
// the cursor stall or run backwards.
var ErrInvalidChunkConfig = errors.New("chunk overlap must be non-negative and smaller than chunk size")

// Split cuts text into overlapping windows of chunkSize runes, advancing the
// cursor by chunkSize-overlap each step. Windows are trimmed of surrounding
// whitespace; windows that trim to nothing are dropped and do not consume an
// index slot. Boundaries may fall mid-word: this is a plain window splitter,
// not a sentence splitter.
func Split(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 || overlap < 0 || overlap >= chunkSize {
		return nil, ErrInvalidChunkConfig
	}

	runes := []rune(text)
	step := chunkSize - overlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}
