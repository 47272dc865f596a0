// Package chunker splits extracted document text into overlapping chunks.
package chunker

import (
	"fmt"

	"github.com/viant/sovereign/document"
)

const (
	DefaultSize    = 1000
	DefaultOverlap = 150
)

// Strategy selects how chunk boundaries are chosen.
type Strategy string

const (
	// StrategyWindow cuts rune windows, preferring whitespace boundaries; it is lossless.
	StrategyWindow Strategy = "window"
	// StrategyRecursive delegates to langchaingo's recursive character splitter.
	StrategyRecursive Strategy = "recursive"
)

// Settings configures a Chunker. Size and Overlap are counted in characters (runes).
type Settings struct {
	Size     int      `yaml:"size" validate:"gt=0"`
	Overlap  int      `yaml:"overlap" validate:"gte=0,ltfield=Size"`
	Strategy Strategy `yaml:"strategy" validate:"omitempty,oneof=window recursive"`
}

// DefaultSettings returns 1000/150 window chunking.
func DefaultSettings() Settings {
	return Settings{Size: DefaultSize, Overlap: DefaultOverlap, Strategy: StrategyWindow}
}

// Chunker splits text into overlapping chunks.
type Chunker struct {
	settings Settings
}

// New validates settings and creates a Chunker.
func New(settings Settings) (*Chunker, error) {
	if settings.Size <= 0 {
		return nil, fmt.Errorf("chunker: size %d must be positive", settings.Size)
	}
	if settings.Overlap < 0 {
		return nil, fmt.Errorf("chunker: overlap %d must not be negative", settings.Overlap)
	}
	if settings.Overlap >= settings.Size {
		return nil, fmt.Errorf("chunker: overlap %d must be smaller than size %d", settings.Overlap, settings.Size)
	}
	switch settings.Strategy {
	case "":
		settings.Strategy = StrategyWindow
	case StrategyWindow, StrategyRecursive:
	default:
		return nil, fmt.Errorf("chunker: unsupported strategy %q", settings.Strategy)
	}
	return &Chunker{settings: settings}, nil
}

// Settings returns the effective settings.
func (c *Chunker) Settings() Settings {
	return c.settings
}

// Split splits text that belongs to source.
func (c *Chunker) Split(source, text string) document.Chunks {
	return c.SplitSource(&document.Source{Path: source, Text: text})
}

// SplitSource splits a loaded document, annotating chunks with their page.
// Empty text yields no chunks.
func (c *Chunker) SplitSource(src *document.Source) document.Chunks {
	if src == nil || src.Text == "" {
		return nil
	}
	runes := []rune(src.Text)
	var spans []span
	switch c.settings.Strategy {
	case StrategyRecursive:
		spans = recursiveSpans(src.Text, runes, c.settings.Size, c.settings.Overlap)
	default:
		spans = windowSpans(runes, c.settings.Size, c.settings.Overlap)
	}
	chunks := make(document.Chunks, 0, len(spans))
	for i, sp := range spans {
		text := string(runes[sp.start:sp.end])
		chunks = append(chunks, &document.Chunk{
			Text:     text,
			Source:   src.Path,
			Seq:      i,
			Start:    sp.start,
			End:      sp.end,
			Page:     src.PageAt(sp.start),
			Checksum: document.Checksum(text),
		})
	}
	return chunks
}

type span struct {
	start int
	end   int
}
