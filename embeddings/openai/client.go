// Package openai embeds text through any OpenAI-compatible /embeddings endpoint,
// such as a locally hosted vLLM or text-embeddings-inference server.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL        = "https://api.openai.com/v1"
	embeddingsEndpoint    = "/embeddings"
	defaultEmbeddingModel = "text-embedding-3-small"
	defaultHTTPClientTO   = 30 * time.Second
)

// Request represents the request structure for OpenAI embeddings API
type Request struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// Response represents the response structure from OpenAI embeddings API
type Response struct {
	Object string          `json:"object"`
	Data   []EmbeddingData `json:"data"`
	Model  string          `json:"model"`
	Usage  EmbeddingUsage  `json:"usage"`
}

// EmbeddingData represents a single embedding in the OpenAI embeddings API response
type EmbeddingData struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// EmbeddingUsage represents token usage information in the OpenAI embeddings API response
type EmbeddingUsage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at an OpenAI-compatible server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.BaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	http    *resty.Client
}

func NewClient(apiKey, model string, opts ...Option) *Client {
	c := &Client{
		BaseURL: defaultBaseURL,
		APIKey:  apiKey,
		Model:   model,
		http: resty.New().
			SetTimeout(defaultHTTPClientTO).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Model == "" {
		c.Model = defaultEmbeddingModel
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Embed creates embeddings for the given texts, ordered as the input.
func (c *Client) Embed(ctx context.Context, texts []string) (vectors [][]float32, totalTokens int, err error) {
	req := c.http.R().SetContext(ctx).SetBody(Request{Model: c.Model, Input: texts})
	if c.APIKey != "" {
		req.SetAuthToken(c.APIKey)
	}
	resp, err := req.Post(c.BaseURL + embeddingsEndpoint)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	if resp.IsError() {
		var errResp errorResponse
		_ = json.Unmarshal(resp.Body(), &errResp)
		if errResp.Error.Message != "" {
			return nil, 0, fmt.Errorf("API error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return nil, 0, fmt.Errorf("API error: %s", resp.Status())
	}
	var embeddingResp Response
	if err := json.Unmarshal(resp.Body(), &embeddingResp); err != nil {
		return nil, 0, fmt.Errorf("decode response: %w", err)
	}
	if len(embeddingResp.Data) != len(texts) {
		return nil, 0, fmt.Errorf("API returned %d embeddings for %d inputs", len(embeddingResp.Data), len(texts))
	}
	sort.SliceStable(embeddingResp.Data, func(i, j int) bool {
		return embeddingResp.Data[i].Index < embeddingResp.Data[j].Index
	})
	out := make([][]float32, len(embeddingResp.Data))
	for i := range embeddingResp.Data {
		out[i] = embeddingResp.Data[i].Embedding
	}
	return out, embeddingResp.Usage.TotalTokens, nil
}

// Embedder bridges the client to the embeddings.Embedder interface.
type Embedder struct{ C *Client }

func (e *Embedder) Model() string { return e.C.Model }

func (e *Embedder) EmbedDocuments(ctx context.Context, docs []string) ([][]float32, error) {
	v, _, err := e.C.Embed(ctx, docs)
	return v, err
}

func (e *Embedder) EmbedQuery(ctx context.Context, q string) ([]float32, error) {
	v, _, err := e.C.Embed(ctx, []string{q})
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return []float32{}, nil
	}
	return v[0], nil
}
