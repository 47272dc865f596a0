package mcp

import "github.com/viant/sovereign/engine"

type AskInput struct {
	Query string `json:"query"`
	K     int    `json:"k,omitempty"`
}

type AskOutput struct {
	Answer  string          `json:"answer"`
	Outcome engine.Outcome  `json:"outcome,omitempty"`
	Kind    engine.Kind     `json:"kind,omitempty"`
	Sources []engine.Source `json:"sources,omitempty"`
}

type SearchInput struct {
	Query    string  `json:"query"`
	Limit    int     `json:"limit,omitempty"`
	Offset   int     `json:"offset,omitempty"`
	MinScore float64 `json:"min_score,omitempty"`
	Source   string  `json:"source,omitempty"`
}

// SearchResult is one retrieved chunk.
type SearchResult struct {
	ID      string  `json:"id"`
	Source  string  `json:"source"`
	Page    int     `json:"page,omitempty"`
	Seq     int     `json:"seq"`
	Score   float32 `json:"score"`
	Content string  `json:"content"`
}

type SearchOutput struct {
	Results []SearchResult `json:"results"`
}

type IngestInput struct {
	Path string `json:"path"`
}

// UploadInput carries base64 encoded document bytes.
type UploadInput struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type IngestOutput struct {
	Message string      `json:"message"`
	Success bool        `json:"success"`
	Chunks  int         `json:"chunks,omitempty"`
	Pages   int         `json:"pages,omitempty"`
	Kind    engine.Kind `json:"kind,omitempty"`
}

type CountInput struct{}

type CountOutput struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}
