package embeddings

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of cached query vectors.
const DefaultCacheSize = 1024

// Cached memoizes query embeddings; document embeddings pass through.
type Cached struct {
	Embedder
	cache *lru.Cache[string, []float32]
}

// NewCached wraps embedder with an LRU of query vectors.
func NewCached(embedder Embedder, size int) (*Cached, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embeddings: embedder is required")
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("embeddings: create cache: %w", err)
	}
	return &Cached{Embedder: embedder, cache: cache}, nil
}

// EmbedQuery returns a cached vector when the same text was embedded before.
func (c *Cached) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := c.cache.Get(text); ok {
		return cloneVec(vec), nil
	}
	vec, err := c.Embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, cloneVec(vec))
	return vec, nil
}

// Model reports the wrapped embedder's model.
func (c *Cached) Model() string {
	return ModelOf(c.Embedder)
}

// Len returns the number of cached queries.
func (c *Cached) Len() int {
	return c.cache.Len()
}

func cloneVec(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
