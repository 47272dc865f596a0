package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

// recursiveSpans splits with langchaingo and recovers rune offsets by locating
// each piece in the text. It falls back to windowSpans when a piece cannot be located.
func recursiveSpans(text string, runes []rune, size, overlap int) []span {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
	)
	pieces, err := splitter.SplitText(text)
	if err != nil || len(pieces) == 0 {
		return windowSpans(runes, size, overlap)
	}
	spans := make([]span, 0, len(pieces))
	fromByte := 0
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		idx := strings.Index(text[fromByte:], piece)
		if idx < 0 {
			return windowSpans(runes, size, overlap)
		}
		startByte := fromByte + idx
		start := utf8.RuneCountInString(text[:startByte])
		end := start + utf8.RuneCountInString(piece)
		spans = append(spans, span{start: start, end: end})
		_, width := utf8.DecodeRuneInString(text[startByte:])
		fromByte = startByte + width
	}
	if len(spans) == 0 {
		return windowSpans(runes, size, overlap)
	}
	return spans
}
