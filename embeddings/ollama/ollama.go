package ollama

import (
	"context"
	"fmt"
)

// Embedder adapts Client to embeddings.Embedder.
type Embedder struct {
	C *Client
}

// NewEmbedder creates an Embedder over a new client.
func NewEmbedder(model string, opts ...ClientOption) *Embedder {
	return &Embedder{C: NewClientWithOptions(model, opts...)}
}

func (e *Embedder) Model() string {
	if e == nil || e.C == nil {
		return ""
	}
	return e.C.Model
}

// EmbedDocuments embeds docs in one /api/embed call.
func (e *Embedder) EmbedDocuments(ctx context.Context, docs []string) ([][]float32, error) {
	if e == nil || e.C == nil {
		return nil, fmt.Errorf("ollama: embedder not configured")
	}
	if len(docs) == 0 {
		return [][]float32{}, nil
	}
	vectors, _, err := e.C.Embed(ctx, docs)
	if err != nil {
		return nil, err
	}
	return vectors, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("ollama: %d vectors returned for one query", len(vectors))
	}
	return vectors[0], nil
}
