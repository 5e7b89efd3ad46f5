package knowledge

import (
	"strings"
	"unicode"
)

// Splitter cuts text into overlapping chunks of at most Size runes. Cuts are
// made at paragraph, then sentence, then word boundaries when possible.
type Splitter struct {
	Size    int
	Overlap int
}

// Split returns the chunks of text. Whitespace-only text yields no chunks.
func (s Splitter) Split(text string) []string {
	size := s.Size
	if size <= 0 {
		size = 1200
	}
	overlap := s.Overlap
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(strings.TrimSpace(text))
	var chunks []string

	for start := 0; start < len(runes); {
		end := min(start+size, len(runes))
		if end < len(runes) {
			end = cutPoint(runes, start, end)
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = skipToWord(runes, next, end)
	}

	return chunks
}

// cutPoint finds the best boundary in (start, end], preferring the later half of the window.
func cutPoint(runes []rune, start, end int) int {
	floor := start + (end-start)/2

	if i := lastIndex(runes, start, end, func(i int) bool {
		return runes[i] == '\n' && i > 0 && runes[i-1] == '\n'
	}); i > floor {
		return i
	}

	if i := lastIndex(runes, start, end, func(i int) bool {
		return (runes[i] == '.' || runes[i] == '!' || runes[i] == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1])
	}); i >= floor {
		return i + 1
	}

	if i := lastIndex(runes, start, end, func(i int) bool { return unicode.IsSpace(runes[i]) }); i > start {
		return i
	}

	return end
}

func lastIndex(runes []rune, start, end int, match func(int) bool) int {
	for i := end - 1; i > start; i-- {
		if match(i) {
			return i
		}
	}
	return -1
}

// skipToWord moves pos forward to the start of a word so that overlapping
// chunks do not begin mid-word. It never moves past limit.
func skipToWord(runes []rune, pos, limit int) int {
	if pos == 0 || pos >= limit {
		return pos
	}
	for pos < limit && !unicode.IsSpace(runes[pos-1]) {
		pos++
	}
	return pos
}
