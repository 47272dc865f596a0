package embeddings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	queries int
}

func (c *countingEmbedder) EmbedDocuments(_ context.Context, docs []string) ([][]float32, error) {
	out := make([][]float32, len(docs))
	for i := range docs {
		out[i] = []float32{float32(len(docs[i]))}
	}
	return out, nil
}

func (c *countingEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	c.queries++
	return []float32{float32(len(text)), 1}, nil
}

func (c *countingEmbedder) Model() string { return "counting" }

func TestCached_EmbedQuery(t *testing.T) {
	base := &countingEmbedder{}
	cached, err := NewCached(base, 2)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := cached.EmbedQuery(ctx, "encryption")
	require.NoError(t, err)
	first[0] = 42 // callers must not be able to poison the cache

	second, err := cached.EmbedQuery(ctx, "encryption")
	require.NoError(t, err)
	assert.Equal(t, []float32{10, 1}, second)
	assert.Equal(t, 1, base.queries)
	assert.Equal(t, 1, cached.Len())
	assert.Equal(t, "counting", cached.Model())

	_, _ = cached.EmbedQuery(ctx, "a")
	_, _ = cached.EmbedQuery(ctx, "b")
	assert.Equal(t, 2, cached.Len())
	_, _ = cached.EmbedQuery(ctx, "encryption")
	assert.Equal(t, 4, base.queries)
}

func TestCached_DocumentsPassThrough(t *testing.T) {
	cached, err := NewCached(&countingEmbedder{}, 0)
	require.NoError(t, err)
	vecs, err := cached.EmbedDocuments(context.Background(), []string{"ab", "abc"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{2}, {3}}, vecs)
	assert.Equal(t, 0, cached.Len())
}

func TestNewCached_RequiresEmbedder(t *testing.T) {
	_, err := NewCached(nil, 10)
	assert.Error(t, err)
}
