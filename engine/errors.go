package engine

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the file to ingest does not exist.
var ErrNotFound = errors.New("file not found")

// Kind classifies engine failures.
type Kind string

const (
	KindUnknown   Kind = "unknown"
	KindNotFound  Kind = "not_found"
	KindLoader    Kind = "loader"
	KindEmbedding Kind = "embedding"
	KindIndex     Kind = "index"
	KindInference Kind = "inference"
)

// IngestError reports a failed ingestion of Path.
type IngestError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

// QueryError reports a failed query.
type QueryError struct {
	Kind Kind
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query: %s: %v", e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// KindOf returns the failure kind carried by err.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ingestErr *IngestError
	if errors.As(err, &ingestErr) {
		return ingestErr.Kind
	}
	var queryErr *QueryError
	if errors.As(err, &queryErr) {
		return queryErr.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return KindUnknown
}
