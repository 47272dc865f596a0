package vectordb

// EmbeddingError marks failures of the embedding provider, as opposed to
// failures of the store itself.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return "vectordb: embed: " + e.Err.Error()
}

func (e *EmbeddingError) Unwrap() error { return e.Err }
