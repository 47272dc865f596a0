package chunker

var separators = [][]rune{[]rune("\n\n"), []rune("\n"), []rune(" ")}

// windowSpans cuts text into windows of at most size runes; each window starts
// overlap runes before the previous one ended.
func windowSpans(text []rune, size, overlap int) []span {
	n := len(text)
	var spans []span
	start := 0
	for {
		limit := start + size
		if limit >= n {
			return append(spans, span{start: start, end: n})
		}
		end := breakPoint(text, start, limit, overlap)
		spans = append(spans, span{start: start, end: end})
		start = end - overlap
	}
}

// breakPoint returns an end in [floor, limit] right after the strongest separator
// found in the upper half of the window, or limit when there is none.
// floor > start+overlap keeps the next window moving forward.
func breakPoint(text []rune, start, limit, overlap int) int {
	floor := start + (limit-start)/2
	if lowest := start + overlap + 1; floor < lowest {
		floor = lowest
	}
	for _, sep := range separators {
		for i := limit - len(sep); i >= start && i+len(sep) >= floor; i-- {
			if hasPrefix(text[i:], sep) {
				return i + len(sep)
			}
		}
	}
	return limit
}

func hasPrefix(text, prefix []rune) bool {
	if len(text) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if text[i] != r {
			return false
		}
	}
	return true
}
