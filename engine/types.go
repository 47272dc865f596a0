package engine

import "time"

// Outcome describes how a query ended.
type Outcome string

const (
	// OutcomeNoContext means retrieval found nothing and the sentinel was returned.
	OutcomeNoContext Outcome = "no_context"
	// OutcomeAnswered means the inference engine produced the text.
	OutcomeAnswered Outcome = "answered"
)

// IngestResult describes a successful ingestion.
type IngestResult struct {
	Path     string        `json:"path"`
	Name     string        `json:"name"`
	Chunks   int           `json:"chunks"`
	Pages    int           `json:"pages,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Answer is a grounded answer with the sources that were put in context.
type Answer struct {
	Query    string        `json:"query"`
	Text     string        `json:"text"`
	Outcome  Outcome       `json:"outcome"`
	Sources  []Source      `json:"sources,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Source locates a retrieved chunk.
type Source struct {
	Path  string  `json:"path"`
	Page  int     `json:"page,omitempty"`
	Seq   int     `json:"seq"`
	Score float32 `json:"score"`
}

// SeedStatus is the result of one file during the bootstrap scan.
type SeedStatus string

const (
	SeedIngested SeedStatus = "ingested"
	SeedFailed   SeedStatus = "failed"
)

// SeedFile reports one file of the bootstrap scan.
type SeedFile struct {
	Path    string     `json:"path"`
	Status  SeedStatus `json:"status"`
	Chunks  int        `json:"chunks,omitempty"`
	Message string     `json:"message"`
}

// SeedReport summarises EnsureSeeded.
type SeedReport struct {
	Folder string `json:"folder"`
	// Skipped is set when the index already held records.
	Skipped  bool       `json:"skipped"`
	Existing int        `json:"existing"`
	Files    []SeedFile `json:"files,omitempty"`
}

// Ingested returns the number of files ingested successfully.
func (r *SeedReport) Ingested() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == SeedIngested {
			n++
		}
	}
	return n
}
