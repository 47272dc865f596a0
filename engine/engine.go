// Package engine ingests private documents into a vector index and answers
// questions grounded strictly in the retrieved passages.
package engine

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/sovereign/chunker"
	"github.com/viant/sovereign/inference"
	"github.com/viant/sovereign/loader"
	"github.com/viant/sovereign/logger"
	"github.com/viant/sovereign/matching"
	"github.com/viant/sovereign/metrics"
	"github.com/viant/sovereign/vectordb"
)

const (
	DefaultTopK       = 4
	DefaultDataFolder = "./data"
)

// Completer generates text for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Engine owns the index and the collaborators of the ingest and query paths.
// It is safe for concurrent use.
type Engine struct {
	index        *vectordb.Index
	loaders      *loader.Registry
	chunker      *chunker.Chunker
	completer    Completer
	matcher      *matching.Manager
	logger       logger.Logger
	metrics      *metrics.Metrics
	fs           afs.Service
	dataFolder   string
	topK         int
	minScore     float32
	systemPrompt string
}

// Option configures an Engine.
type Option func(*Engine)

func WithLoaders(registry *loader.Registry) Option {
	return func(e *Engine) { e.loaders = registry }
}

func WithChunker(c *chunker.Chunker) Option {
	return func(e *Engine) { e.chunker = c }
}

func WithCompleter(c Completer) Option {
	return func(e *Engine) { e.completer = c }
}

// WithMatcher filters files considered by the bootstrap scan.
func WithMatcher(m *matching.Manager) Option {
	return func(e *Engine) { e.matcher = m }
}

func WithLogger(l logger.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithFS(fs afs.Service) Option {
	return func(e *Engine) { e.fs = fs }
}

func WithDataFolder(folder string) Option {
	return func(e *Engine) { e.dataFolder = folder }
}

// WithTopK sets the k used when callers pass k <= 0.
func WithTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithMinScore drops retrieved chunks below score.
func WithMinScore(score float32) Option {
	return func(e *Engine) { e.minScore = score }
}

func WithSystemPrompt(prompt string) Option {
	return func(e *Engine) {
		if prompt != "" {
			e.systemPrompt = prompt
		}
	}
}

// New creates an Engine over index.
func New(index *vectordb.Index, opts ...Option) (*Engine, error) {
	if index == nil {
		return nil, fmt.Errorf("engine: index is required")
	}
	ret := &Engine{
		index:        index,
		dataFolder:   DefaultDataFolder,
		topK:         DefaultTopK,
		systemPrompt: SystemPrompt,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.loaders == nil {
		ret.loaders = loader.New(loader.WithFS(ret.fs))
	}
	if ret.chunker == nil {
		c, err := chunker.New(chunker.DefaultSettings())
		if err != nil {
			return nil, err
		}
		ret.chunker = c
	}
	if ret.completer == nil {
		ret.completer = inference.New(inference.DefaultURL)
	}
	if ret.matcher == nil {
		ret.matcher = matching.New()
	}
	if ret.logger == nil {
		ret.logger = logger.NewLogger(nil)
	}
	return ret, nil
}

// Initialize seeds the index from the data folder when it is empty.
// Hosting processes call it once at start.
func (e *Engine) Initialize(ctx context.Context) (*SeedReport, error) {
	return e.EnsureSeeded(ctx, e.dataFolder)
}

// Count returns the number of indexed chunks.
func (e *Engine) Count(ctx context.Context) (int, error) {
	count, err := e.index.Count(ctx)
	if err != nil {
		return 0, err
	}
	e.metrics.SetIndexSize(count)
	return count, nil
}

// DataFolder returns the folder scanned by Initialize.
func (e *Engine) DataFolder() string { return e.dataFolder }

// Index returns the underlying vector index.
func (e *Engine) Index() *vectordb.Index { return e.index }

// Close releases the index.
func (e *Engine) Close() error {
	return e.index.Close()
}
