package vectordb

import (
	"context"
	"time"

	"github.com/viant/sovereign/vectorstores"
)

// Record is a persisted chunk: its text, metadata and embedding.
type Record struct {
	ID        string
	Content   string
	Meta      map[string]interface{}
	Embedding []float32
	Model     string
	CreatedAt time.Time
}

// Match is a record returned by a similarity query.
type Match struct {
	Record *Record
	Score  float32
}

// Store persists records and answers nearest-neighbour queries.
// Implementations must return an empty result, not an error, when empty.
type Store interface {
	Put(ctx context.Context, records []*Record) (int, error)
	Query(ctx context.Context, vector []float32, k int, opts ...vectorstores.Option) ([]*Match, error)
	Count(ctx context.Context) (int, error)
	Close() error
}
