package rag

import "strings"

// Default chunking parameters for embedding passages.
const (
	DefaultMaxChars = 1000
	DefaultOverlap  = 150
)

// ChunkText splits text into overlapping fixed-size passages. All
// whitespace runs collapse to single spaces before chunking, so layout
// and newlines are not preserved. Window i+1 starts overlap runes
// before the end of window i; the final chunk may be shorter. Empty or
// all-whitespace input yields no chunks. Non-positive maxChars falls
// back to the default, and overlap is clamped below maxChars so every
// window advances.
func ChunkText(text string, maxChars, overlap int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChars {
		overlap = maxChars - 1
	}

	cleaned := strings.Join(strings.Fields(text), " ")
	if cleaned == "" {
		return nil
	}

	runes := []rune(cleaned)
	chunks := make([]string, 0, len(runes)/maxChars+1)

	start := 0
	for start < len(runes) {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end >= len(runes) {
			break
		}
		start = end - overlap
		if start < 0 {
			start = 0
		}
	}
	return chunks
}

// Chunk applies the default chunking parameters.
func Chunk(text string) []string {
	return ChunkText(text, DefaultMaxChars, DefaultOverlap)
}
