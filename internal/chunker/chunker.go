package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"studybuddy/internal/models"
)

// Chunker splits cleaned document text into overlapping fixed-size word
// windows. Window boundaries are pure word counts, no sentence awareness.
type Chunker struct {
	size    int
	overlap int
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// \p{L}\p{N}_ rather than \w: Go's \w is ASCII-only and would strip
	// accented and CJK letters from ingested documents
	specialRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\.\,\!\?\;\:\-\(\)]`)
)

// New validates the window parameters. Overlap must be strictly smaller
// than size or the window start would never advance.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", models.ErrInvalidConfiguration, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must be non-negative, got %d", models.ErrInvalidConfiguration, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap %d must be less than chunk size %d", models.ErrInvalidConfiguration, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits text on whitespace and emits windows of up to size words,
// each advancing size-overlap words past the previous start.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	step := c.size - c.overlap
	for start := 0; start < len(words); start += step {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// Clean collapses whitespace runs and strips special characters while
// keeping sentence punctuation.
func Clean(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = specialRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
