package vectordb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/viant/sovereign/document"
	"github.com/viant/sovereign/embeddings"
	"github.com/viant/sovereign/schema"
	"github.com/viant/sovereign/vectordb/meta"
	"github.com/viant/sovereign/vectorstores"
)

// DefaultBatchSize is the number of chunks embedded per provider call.
const DefaultBatchSize = 64

// Index embeds chunks into a Store and searches it by query text.
type Index struct {
	store     Store
	embedder  embeddings.Embedder
	batchSize int
	model     string
	now       func() time.Time
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithBatchSize sets the embedding batch size.
func WithBatchSize(size int) IndexOption {
	return func(i *Index) {
		if size > 0 {
			i.batchSize = size
		}
	}
}

// WithModel overrides the embedding model name stored with records.
func WithModel(model string) IndexOption {
	return func(i *Index) { i.model = model }
}

// NewIndex creates an Index over store.
func NewIndex(store Store, embedder embeddings.Embedder, opts ...IndexOption) (*Index, error) {
	if store == nil {
		return nil, fmt.Errorf("vectordb: store is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("vectordb: embedder is required")
	}
	ret := &Index{
		store:     store,
		embedder:  embedder,
		batchSize: DefaultBatchSize,
		model:     embeddings.ModelOf(embedder),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret, nil
}

// Add embeds chunks and writes one record per chunk. Repeated content is
// stored again; records are never merged. Every batch is embedded before
// anything is written, so a failed Add leaves the store unchanged.
func (i *Index) Add(ctx context.Context, chunks []*document.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	records := make([]*Record, 0, len(chunks))
	for start := 0; start < len(chunks); start += i.batchSize {
		end := start + i.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := document.Chunks(chunks[start:end])
		vectors, err := i.embedder.EmbedDocuments(ctx, batch.Texts())
		if err != nil {
			return 0, &EmbeddingError{Err: err}
		}
		if len(vectors) != len(batch) {
			return 0, &EmbeddingError{Err: fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))}
		}
		now := i.now()
		for j, chunk := range batch {
			record := &Record{
				ID:        uuid.NewString(),
				Content:   chunk.Text,
				Meta:      chunk.Metadata(),
				Embedding: vectors[j],
				Model:     i.model,
				CreatedAt: now,
			}
			if i.model != "" {
				record.Meta[meta.ModelKey] = i.model
			}
			records = append(records, record)
		}
	}
	n, err := i.store.Put(ctx, records)
	if err != nil {
		return n, fmt.Errorf("vectordb: put records: %w", err)
	}
	return n, nil
}

// Search returns up to k documents nearest to query, best first.
func (i *Index) Search(ctx context.Context, query string, k int, opts ...vectorstores.Option) ([]schema.Document, error) {
	if k <= 0 {
		return []schema.Document{}, nil
	}
	count, err := i.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("vectordb: count records: %w", err)
	}
	if count == 0 {
		return []schema.Document{}, nil
	}
	vec, err := i.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, &EmbeddingError{Err: err}
	}
	matches, err := i.store.Query(ctx, vec, k, opts...)
	if err != nil {
		return nil, fmt.Errorf("vectordb: query records: %w", err)
	}
	SortMatches(matches)
	if len(matches) > k {
		matches = matches[:k]
	}
	docs := make([]schema.Document, len(matches))
	for j, match := range matches {
		docs[j] = schema.Document{
			ID:          match.Record.ID,
			PageContent: match.Record.Content,
			Metadata:    match.Record.Meta,
			Score:       match.Score,
		}
	}
	return docs, nil
}

// Count returns the number of stored records.
func (i *Index) Count(ctx context.Context) (int, error) {
	count, err := i.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("vectordb: count records: %w", err)
	}
	return count, nil
}

// Store returns the backing store.
func (i *Index) Store() Store { return i.store }

// Close closes the backing store.
func (i *Index) Close() error {
	return i.store.Close()
}
