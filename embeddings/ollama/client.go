package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL     = "http://localhost:11434"
	defaultModel       = "all-minilm"
	embedEndpoint      = "/api/embed"
	defaultHTTPTimeout = 30 * time.Second
)

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.BaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

type Client struct {
	BaseURL string
	Model   string
	http    *resty.Client
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings      [][]float32 `json:"embeddings"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	Error           string      `json:"error"`
}

func NewClientWithOptions(model string, opts ...ClientOption) *Client {
	if model == "" {
		model = defaultModel
	}
	c := &Client{
		BaseURL: defaultBaseURL,
		Model:   model,
		http: resty.New().
			SetTimeout(defaultHTTPTimeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Embed returns one vector per text and the prompt token count reported by Ollama.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, int, error) {
	if c == nil {
		return nil, 0, fmt.Errorf("ollama client is nil")
	}
	if len(texts) == 0 {
		return nil, 0, fmt.Errorf("no input texts provided")
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(embedRequest{Model: c.Model, Input: texts}).
		Post(c.BaseURL + embedEndpoint)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	if resp.IsError() {
		return nil, 0, fmt.Errorf("ollama API error: %s: %s", resp.Status(), strings.TrimSpace(resp.String()))
	}
	var out embedResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, 0, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return nil, 0, fmt.Errorf("ollama API error: %s", out.Error)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, 0, fmt.Errorf("ollama returned %d embeddings for %d inputs", len(out.Embeddings), len(texts))
	}
	return out.Embeddings, out.PromptEvalCount, nil
}
