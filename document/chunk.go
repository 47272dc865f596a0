package document

import (
	"fmt"

	"github.com/viant/sovereign/vectordb/meta"
)

// Chunks represents an ordered collection of chunks cut from one source.
type Chunks []*Chunk

// Texts returns chunk texts in sequence order.
func (c Chunks) Texts() []string {
	out := make([]string, len(c))
	for i, chunk := range c {
		out[i] = chunk.Text
	}
	return out
}

// Chunk represents a contiguous portion of a document's extracted text.
// Start and End are rune offsets into that text.
type Chunk struct {
	Text     string `json:"text"`
	Source   string `json:"source"`
	Seq      int    `json:"seq"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Page     int    `json:"page,omitempty"`
	Checksum uint64 `json:"checksum"`
}

// ID returns a stable, human readable chunk locator.
func (c *Chunk) ID() string {
	return fmt.Sprintf("%s:%d-%d", c.Source, c.Start, c.End)
}

// Metadata returns the metadata persisted next to the chunk's vector.
func (c *Chunk) Metadata() map[string]interface{} {
	metadata := map[string]interface{}{
		meta.SourceKey:   c.Source,
		meta.SeqKey:      c.Seq,
		meta.StartKey:    c.Start,
		meta.EndKey:      c.End,
		meta.ChecksumKey: fmt.Sprintf("%016x", c.Checksum),
		meta.ChunkID:     c.ID(),
	}
	if c.Page > 0 {
		metadata[meta.PageKey] = c.Page
	}
	return metadata
}
