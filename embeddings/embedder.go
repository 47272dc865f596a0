package embeddings

import "context"

// Embedder is a minimal interface for computing vector embeddings
// for documents and queries.
type Embedder interface {
	EmbedDocuments(ctx context.Context, docs []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Named is implemented by embedders that can report their model identifier.
type Named interface {
	Model() string
}

// ModelOf returns the embedder's model name, or "" when it does not report one.
func ModelOf(e Embedder) string {
	if named, ok := e.(Named); ok {
		return named.Model()
	}
	return ""
}
