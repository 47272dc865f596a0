// Package hash provides a deterministic, dependency free embedder based on
// hashed character trigrams. It needs no model server, which makes it suitable
// for tests and air-gapped trials; its similarity is lexical, not semantic.
package hash

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const DefaultDimensions = 256

// Embedder maps text to an L2-normalised bag of hashed trigrams.
type Embedder struct {
	Dim int
}

// New creates an embedder with dim dimensions.
func New(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	return &Embedder{Dim: dim}
}

// Model reports a stable model identifier.
func (e *Embedder) Model() string {
	return "hash-trigram"
}

// EmbedDocuments embeds documents deterministically.
func (e *Embedder) EmbedDocuments(_ context.Context, docs []string) ([][]float32, error) {
	out := make([][]float32, len(docs))
	for i, doc := range docs {
		out[i] = e.embed(doc)
	}
	return out, nil
}

// EmbedQuery embeds a query deterministically.
func (e *Embedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

func (e *Embedder) embed(text string) []float32 {
	vec := make([]float32, e.Dim)
	for _, word := range strings.FieldsFunc(strings.ToLower(text), isSeparator) {
		padded := []rune(" " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			h := fnv.New32a()
			_, _ = h.Write([]byte(string(padded[i : i+3])))
			vec[h.Sum32()%uint32(e.Dim)]++
		}
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
