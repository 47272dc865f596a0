package vectordb

import (
	"sort"

	"github.com/viant/sovereign/vectorstores"
	"github.com/viant/sqlite-vec/vector"
)

// Similarity returns cosine similarity; mismatched or zero vectors score 0.
func Similarity(a, b []float32) float32 {
	score, err := vector.CosineSimilarity(a, b)
	if err != nil {
		return 0
	}
	return float32(score)
}

// Rank scores records against vec, applies options and returns the best k.
func Rank(records []*Record, vec []float32, k int, options *vectorstores.Options) []*Match {
	if k <= 0 || len(records) == 0 {
		return nil
	}
	matches := make([]*Match, 0, len(records))
	for _, record := range records {
		if !options.Accept(sourceOf(record)) {
			continue
		}
		score := Similarity(vec, record.Embedding)
		if options.MinScore > 0 && score < options.MinScore {
			continue
		}
		matches = append(matches, &Match{Record: record, Score: score})
	}
	SortMatches(matches)
	if options.Offset > 0 {
		if options.Offset >= len(matches) {
			return nil
		}
		matches = matches[options.Offset:]
	}
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// SortMatches orders matches by score descending, then by record ID.
func SortMatches(matches []*Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Record.ID < matches[j].Record.ID
	})
}
