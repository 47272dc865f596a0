package document

import "sort"

// Source represents a loaded document: its identifier, extracted text and page layout.
type Source struct {
	Path  string
	Text  string
	Pages []Page
}

// Page marks the rune span [Start, End) of a 1-based page within Source.Text.
type Page struct {
	Number int
	Start  int
	End    int
}

// PageAt returns the page number containing the rune offset, or 0 when pages are unknown.
func (s *Source) PageAt(offset int) int {
	if len(s.Pages) == 0 {
		return 0
	}
	i := sort.Search(len(s.Pages), func(i int) bool { return s.Pages[i].End > offset })
	if i == len(s.Pages) {
		return s.Pages[len(s.Pages)-1].Number
	}
	return s.Pages[i].Number
}
