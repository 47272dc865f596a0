package vectordb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sovereign/document"
	"github.com/viant/sovereign/embeddings/hash"
	"github.com/viant/sovereign/vectordb"
	"github.com/viant/sovereign/vectordb/mem"
	"github.com/viant/sovereign/vectordb/meta"
)

type failingEmbedder struct{}

func (failingEmbedder) EmbedDocuments(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("connection refused")
}

func (failingEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return nil, errors.New("connection refused")
}

// secondCallFails embeds the first batch and fails on the next one.
type secondCallFails struct {
	*hash.Embedder
	calls int
}

func (e *secondCallFails) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.calls > 1 {
		return nil, errors.New("connection reset")
	}
	return e.Embedder.EmbedDocuments(ctx, texts)
}

func chunksOf(source string, texts ...string) []*document.Chunk {
	out := make([]*document.Chunk, len(texts))
	offset := 0
	for i, text := range texts {
		out[i] = &document.Chunk{Text: text, Source: source, Seq: i, Start: offset, End: offset + len([]rune(text)), Checksum: document.Checksum(text)}
		offset += len([]rune(text))
	}
	return out
}

func newIndex(t *testing.T, opts ...vectordb.IndexOption) *vectordb.Index {
	store, err := mem.NewStore(context.Background())
	require.NoError(t, err)
	index, err := vectordb.NewIndex(store, hash.New(256), opts...)
	require.NoError(t, err)
	return index
}

func TestIndex_SearchEmpty(t *testing.T) {
	index := newIndex(t)
	docs, err := index.Search(context.Background(), "anything", 4)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestIndex_AddAndSearch(t *testing.T) {
	ctx := context.Background()
	index := newIndex(t, vectordb.WithBatchSize(2))
	chunks := chunksOf("/data/policy.txt",
		"Our encryption standard is AES-256 for all data at rest.",
		"Employees receive twenty days of paid vacation.",
		"The cafeteria opens at eight in the morning.",
	)
	n, err := index.Add(ctx, chunks)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	docs, err := index.Search(ctx, "What is the encryption standard?", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Contains(t, docs[0].PageContent, "AES-256")
	assert.GreaterOrEqual(t, docs[0].Score, docs[1].Score)
	assert.Equal(t, "/data/policy.txt", docs[0].Source())
	assert.Equal(t, "hash-trigram", docs[0].Metadata[meta.ModelKey])

	docs, err = index.Search(ctx, "encryption", 10)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestIndex_AddDoesNotDeduplicate(t *testing.T) {
	ctx := context.Background()
	index := newIndex(t)
	chunks := chunksOf("a.txt", "same text", "other text")
	for i := 0; i < 2; i++ {
		_, err := index.Add(ctx, chunks)
		require.NoError(t, err)
	}
	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	n, err := index.Add(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestIndex_EmbeddingFailure(t *testing.T) {
	store, err := mem.NewStore(context.Background())
	require.NoError(t, err)
	index, err := vectordb.NewIndex(store, failingEmbedder{})
	require.NoError(t, err)

	_, err = index.Add(context.Background(), chunksOf("a.txt", "text"))
	var embedErr *vectordb.EmbeddingError
	require.ErrorAs(t, err, &embedErr)

	count, err := index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIndex_AddLeavesStoreUnchangedOnLaterBatchFailure(t *testing.T) {
	ctx := context.Background()
	store, err := mem.NewStore(ctx)
	require.NoError(t, err)
	embedder := &secondCallFails{Embedder: hash.New(64)}
	index, err := vectordb.NewIndex(store, embedder, vectordb.WithBatchSize(2))
	require.NoError(t, err)

	n, err := index.Add(ctx, chunksOf("big.txt", "one", "two", "three", "four", "five"))
	var embedErr *vectordb.EmbeddingError
	require.ErrorAs(t, err, &embedErr)
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, embedder.calls)

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestNewIndex_Validation(t *testing.T) {
	_, err := vectordb.NewIndex(nil, hash.New(8))
	assert.Error(t, err)
	store, _ := mem.NewStore(context.Background())
	_, err = vectordb.NewIndex(store, nil)
	assert.Error(t, err)
}
