package engine

import (
	"context"
	"fmt"

	"github.com/viant/sovereign/chunker"
	"github.com/viant/sovereign/embeddings"
	"github.com/viant/sovereign/embeddings/hash"
	"github.com/viant/sovereign/embeddings/ollama"
	"github.com/viant/sovereign/embeddings/openai"
	"github.com/viant/sovereign/inference"
	"github.com/viant/sovereign/matching"
	"github.com/viant/sovereign/vectordb"
	"github.com/viant/sovereign/vectordb/mem"
	"github.com/viant/sovereign/vectordb/sqlitevec"
)

// NewFromConfig wires the store, embedder, index, chunker, scan filter and
// inference client described by cfg. Options passed by the caller win.
func NewFromConfig(ctx context.Context, cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	embedder, err := NewEmbedder(cfg.Embedder)
	if err != nil {
		return nil, err
	}
	cached, err := embeddings.NewCached(embedder, cfg.Embedder.CacheSize)
	if err != nil {
		return nil, err
	}
	c, err := chunker.New(cfg.Chunker)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	index, err := vectordb.NewIndex(store, cached, vectordb.WithBatchSize(cfg.Embedder.BatchSize))
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	completer := inference.New(cfg.Inference.URL,
		inference.WithModel(cfg.Inference.Model),
		inference.WithAPIKey(cfg.Inference.APIKey),
		inference.WithMaxTokens(cfg.Inference.MaxTokens),
		inference.WithTimeout(cfg.Inference.Timeout),
	)
	base := []Option{
		WithChunker(c),
		WithCompleter(completer),
		WithMatcher(matching.New(cfg.Scan.Options()...)),
		WithDataFolder(cfg.DataFolder),
		WithTopK(cfg.Retrieval.TopK),
		WithMinScore(cfg.Retrieval.MinScore),
		WithSystemPrompt(cfg.Retrieval.SystemPrompt),
	}
	ret, err := New(index, append(base, opts...)...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return ret, nil
}

// NewStore opens the configured vector store backend.
func NewStore(ctx context.Context, cfg *Config) (vectordb.Store, error) {
	switch cfg.Store.Driver {
	case DriverSQLite, "":
		store, err := sqlitevec.NewStore(ctx,
			sqlitevec.WithDSN(cfg.Store.DSN),
			sqlitevec.WithDataset(cfg.Collection),
		)
		if err != nil {
			return nil, fmt.Errorf("engine: open sqlite store: %w", err)
		}
		return store, nil
	case DriverMemory:
		store, err := mem.NewStore(ctx,
			mem.WithBaseURL(cfg.Store.Dir),
			mem.WithCollection(cfg.Collection),
		)
		if err != nil {
			return nil, fmt.Errorf("engine: open memory store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("engine: unsupported store driver %q", cfg.Store.Driver)
	}
}

// NewEmbedder creates the configured embedding provider.
func NewEmbedder(cfg EmbedderConfig) (embeddings.Embedder, error) {
	switch cfg.Provider {
	case ProviderOllama, "":
		return ollama.NewEmbedder(cfg.Model, ollama.WithBaseURL(cfg.BaseURL), ollama.WithTimeout(cfg.Timeout)), nil
	case ProviderOpenAI:
		return &openai.Embedder{C: openai.NewClient(cfg.APIKey, cfg.Model, openai.WithBaseURL(cfg.BaseURL), openai.WithTimeout(cfg.Timeout))}, nil
	case ProviderHash:
		return hash.New(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("engine: unsupported embedder provider %q", cfg.Provider)
	}
}
