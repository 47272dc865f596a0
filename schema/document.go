package schema

import "github.com/viant/sovereign/vectordb/meta"

// Document is a retrieved chunk with its source metadata and similarity score.
type Document struct {
	ID          string                 `json:"id,omitempty"`
	PageContent string                 `json:"page_content"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	// Score is populated by similarity search; higher is nearer.
	Score float32 `json:"score,omitempty"`
}

// Source returns the document identifier (path) the chunk was cut from.
func (d *Document) Source() string {
	return meta.GetString(d.Metadata, meta.SourceKey)
}

// Page returns the 1-based page of the chunk, or 0 when unknown.
func (d *Document) Page() int {
	return meta.GetInt(d.Metadata, meta.PageKey)
}
