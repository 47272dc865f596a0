package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/viant/sovereign/schema"
	"github.com/viant/sovereign/vectordb"
	"github.com/viant/sovereign/vectordb/meta"
	"github.com/viant/sovereign/vectorstores"
)

// Search returns up to k chunks nearest to query; k <= 0 uses the engine default.
func (e *Engine) Search(ctx context.Context, query string, k int, opts ...vectorstores.Option) ([]schema.Document, error) {
	if k <= 0 {
		k = e.topK
	}
	if e.minScore > 0 {
		opts = append([]vectorstores.Option{vectorstores.WithMinScore(e.minScore)}, opts...)
	}
	started := time.Now()
	docs, err := e.index.Search(ctx, query, k, opts...)
	e.metrics.ObserveRetrieval(time.Since(started))
	if err != nil {
		kind := KindIndex
		var embedErr *vectordb.EmbeddingError
		if errors.As(err, &embedErr) {
			kind = KindEmbedding
		}
		return nil, &QueryError{Kind: kind, Err: err}
	}
	return docs, nil
}

// Query retrieves context for query and asks the inference engine to answer
// from it. An empty retrieval is not an error: it yields the NoContextAnswer
// sentinel with OutcomeNoContext.
func (e *Engine) Query(ctx context.Context, query string, k int) (*Answer, error) {
	started := time.Now()
	log := e.logger.With("query", query)
	docs, err := e.Search(ctx, query, k)
	if err != nil {
		log.Error("retrieval failed", "error", err)
		e.metrics.QueryDone(string(KindOf(err)))
		return nil, err
	}
	answer := &Answer{Query: query, Sources: sourcesOf(docs)}
	if len(docs) == 0 {
		answer.Text = NoContextAnswer
		answer.Outcome = OutcomeNoContext
		answer.Duration = time.Since(started)
		log.Info("no relevant context")
		e.metrics.QueryDone(string(OutcomeNoContext))
		return answer, nil
	}

	prompt := BuildPrompt(e.systemPrompt, BuildContext(docs), query)
	inferenceStarted := time.Now()
	text, err := e.completer.Complete(ctx, prompt)
	e.metrics.ObserveInference(time.Since(inferenceStarted))
	if err != nil {
		log.Error("inference failed", "error", err)
		e.metrics.QueryDone(string(KindInference))
		return nil, &QueryError{Kind: KindInference, Err: err}
	}
	answer.Text = strings.TrimSpace(text)
	answer.Outcome = OutcomeAnswered
	answer.Duration = time.Since(started)
	log.Info("answered", "chunks", len(docs), "duration", answer.Duration)
	e.metrics.QueryDone(string(OutcomeAnswered))
	return answer, nil
}

// Answer is Query reported as text. Failures become "System Error" messages.
func (e *Engine) Answer(ctx context.Context, query string, k int) string {
	answer, err := e.Query(ctx, query, k)
	if err != nil {
		return QueryMessage(err)
	}
	return answer.Text
}

// QueryMessage renders a query failure.
func QueryMessage(err error) string {
	cause := err
	var queryErr *QueryError
	if errors.As(err, &queryErr) {
		cause = queryErr.Err
	}
	switch KindOf(err) {
	case KindIndex, KindEmbedding:
		return fmt.Sprintf("System Error: Could not search the private database. (Details: %s)", cause)
	default:
		return fmt.Sprintf("System Error: Could not connect to the AI Engine. (Details: %s)", cause)
	}
}

func sourcesOf(docs []schema.Document) []Source {
	if len(docs) == 0 {
		return nil
	}
	out := make([]Source, len(docs))
	for i := range docs {
		out[i] = Source{
			Path:  docs[i].Source(),
			Page:  docs[i].Page(),
			Seq:   meta.GetInt(docs[i].Metadata, meta.SeqKey),
			Score: docs[i].Score,
		}
	}
	return out
}
