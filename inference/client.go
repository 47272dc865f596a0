// Package inference calls an OpenAI-compatible text completion endpoint, such
// as a vLLM server hosting an instruct model.
package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const (
	DefaultURL         = "http://localhost:8000/v1/completions"
	DefaultModel       = "mistralai/Mistral-7B-Instruct-v0.3"
	DefaultMaxTokens   = 512
	DefaultTimeout     = 60 * time.Second
	DefaultStopToken   = "</s>"
	completionTextPath = "choices.0.text"
)

// Request is the completion request body. Temperature is always 0 so
// answers stay deterministic.
type Request struct {
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop"`
}

// Client posts prompts to a completion endpoint.
type Client struct {
	url       string
	model     string
	apiKey    string
	maxTokens int
	stop      []string
	http      *resty.Client
}

// Option configures a Client.
type Option func(*Client)

func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithAPIKey sends the key as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

func WithMaxTokens(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

func WithStop(stop ...string) Option {
	return func(c *Client) { c.stop = stop }
}

// New creates a client for the completion endpoint at url.
func New(url string, opts ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}
	c := &Client{
		url:       url,
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
		stop:      []string{DefaultStopToken},
		http: resty.New().
			SetTimeout(DefaultTimeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model name sent with each request.
func (c *Client) Model() string { return c.model }

// URL returns the completion endpoint.
func (c *Client) URL() string { return c.url }

// Complete sends prompt and returns choices[0].text as generated.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	req := c.http.R().
		SetContext(ctx).
		SetBody(Request{
			Model:       c.model,
			Prompt:      prompt,
			MaxTokens:   c.maxTokens,
			Temperature: 0,
			Stop:        c.stop,
		})
	if c.apiKey != "" {
		req.SetAuthToken(c.apiKey)
	}
	resp, err := req.Post(c.url)
	if err != nil {
		return "", fmt.Errorf("inference: %w", err)
	}
	if resp.IsError() {
		return "", &StatusError{Code: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
	}
	text := gjson.GetBytes(resp.Body(), completionTextPath)
	if !text.Exists() {
		return "", fmt.Errorf("inference: response has no %s", completionTextPath)
	}
	return text.String(), nil
}
