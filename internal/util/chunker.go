package util

import "strings"

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// Boundaries in order of preference. A cut lands right after the separator.
var chunkSeparators = [][]rune{
	[]rune("\n\n"),
	[]rune("\n"),
	[]rune(". "),
	[]rune("? "),
	[]rune("! "),
	[]rune(" "),
}

// ChunkText splits text into windows of at most size runes where each window
// starts overlap runes before the previous one ended. Cuts prefer paragraph,
// line, sentence and word boundaries in the second half of a window and fall
// back to a hard cut at size runes.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 10
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		return []string{string(runes)}
	}

	var chunks []string
	push := func(r []rune) {
		if s := strings.TrimSpace(string(r)); s != "" {
			chunks = append(chunks, s)
		}
	}

	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			push(runes[start:])
			break
		}
		cut := findCut(runes, start, end, size/2)
		push(runes[start:cut])

		next := cut - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

func findCut(runes []rune, start, end, minLen int) int {
	window := runes[start:end]
	for _, sep := range chunkSeparators {
		idx := lastIndexRunes(window, sep)
		if idx >= 0 && idx+len(sep) > minLen {
			return start + idx + len(sep)
		}
	}
	return end
}

func lastIndexRunes(s, sep []rune) int {
outer:
	for i := len(s) - len(sep); i >= 0; i-- {
		for j := range sep {
			if s[i+j] != sep[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
