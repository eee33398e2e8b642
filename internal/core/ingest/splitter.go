package ingest

import (
	"strings"
	"unicode"
)

// DefaultChunkSize is the default number of characters per segment.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of characters repeated from
// the end of one segment at the start of the next.
const DefaultChunkOverlap = 100

// Splitter cuts extracted text into overlapping, size-bounded segments.
// Split is a pure function of (text, size, overlap): the same inputs
// always produce the same boundaries, which is what makes reprocessing a
// document idempotent.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter builds a splitter with the given segment size and overlap in
// characters. Non-positive size and negative overlap fall back to the
// defaults; an overlap at or above the size is clamped to a quarter of it.
func NewSplitter(size, overlap int) *Splitter {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= size {
		overlap = size / 4
	}
	return &Splitter{size: size, overlap: overlap}
}

// Split returns the ordered segments of text. Every segment is at most
// size runes; each one after the first begins exactly overlap runes
// before the previous segment's end. Empty or whitespace-only input
// yields no segments.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)

	segments := make([]string, 0, n/(s.size-s.overlap)+1)
	start := 0
	for start < n {
		end := start + s.size
		if end >= n {
			segments = append(segments, string(runes[start:n]))
			break
		}

		cut := s.boundaryCut(runes, start, end)
		segments = append(segments, string(runes[start:cut]))
		start = cut - s.overlap
	}
	return segments
}

// boundaryCut picks the split point in (floor, end]: the rightmost
// paragraph break, else sentence end, else word gap, else the hard cut at
// end. The floor sits past start+overlap so the next segment always
// advances, and never below the window midpoint so a lone early boundary
// cannot produce degenerate slivers.
func (s *Splitter) boundaryCut(runes []rune, start, end int) int {
	floor := start + (end-start)/2
	if floor <= start+s.overlap {
		floor = start + s.overlap + 1
	}

	for _, boundary := range []func([]rune, int) bool{paragraphEnd, sentenceEnd, wordEnd} {
		for i := end; i > floor; i-- {
			if boundary(runes, i) {
				return i
			}
		}
	}
	return end
}

// paragraphEnd reports whether a cut at i lands right after a blank line.
func paragraphEnd(runes []rune, i int) bool {
	return i >= 2 && runes[i-1] == '\n' && runes[i-2] == '\n'
}

// sentenceEnd reports whether a cut at i lands after a line break or a
// sentence terminator followed by whitespace.
func sentenceEnd(runes []rune, i int) bool {
	last := runes[i-1]
	if last == '\n' {
		return true
	}
	if last != '.' && last != '!' && last != '?' {
		return false
	}
	return i >= len(runes) || unicode.IsSpace(runes[i])
}

// wordEnd reports whether a cut at i avoids splitting mid-word.
func wordEnd(runes []rune, i int) bool {
	return unicode.IsSpace(runes[i-1])
}
