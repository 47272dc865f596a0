package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/viant/afs"
	"github.com/viant/scy/cred/secret"
	"github.com/viant/sovereign/chunker"
	"github.com/viant/sovereign/inference"
	"github.com/viant/sovereign/matching/option"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCollection = "enterprise_docs"
	DefaultDSN        = "./vector_db/sovereign.sqlite"
	DefaultStoreDir   = "./vector_db"
	DefaultEmbedModel = "all-minilm"
	DefaultMCPPort    = 6061
)

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"

	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderHash   = "hash"
)

// Config defines the engine, its collaborators and the process surfaces.
type Config struct {
	DataFolder string           `yaml:"dataFolder" validate:"required"`
	Collection string           `yaml:"collection" validate:"required"`
	Store      StoreConfig      `yaml:"store"`
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Inference  InferenceConfig  `yaml:"inference"`
	Chunker    chunker.Settings `yaml:"chunker"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Scan       option.Options   `yaml:"scan"`
	Log        LogConfig        `yaml:"log"`
	MCPServer  MCPServerConfig  `yaml:"mcpServer"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// StoreConfig defines vector store settings.
type StoreConfig struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite memory"`
	DSN    string `yaml:"dsn" validate:"required_if=Driver sqlite"`
	// Secret expands ${...} placeholders in DSN.
	Secret string `yaml:"secret,omitempty"`
	// Dir holds collection files of the memory driver; empty keeps it volatile.
	Dir string `yaml:"dir,omitempty"`
}

// EmbedderConfig selects the embedding provider.
type EmbedderConfig struct {
	Provider     string        `yaml:"provider" validate:"oneof=ollama openai hash"`
	Model        string        `yaml:"model"`
	BaseURL      string        `yaml:"baseURL,omitempty" validate:"omitempty,url"`
	APIKey       string        `yaml:"apiKey,omitempty"`
	APIKeySecret string        `yaml:"apiKeySecret,omitempty"`
	Dimensions   int           `yaml:"dimensions,omitempty" validate:"gte=0"`
	BatchSize    int           `yaml:"batchSize,omitempty" validate:"gte=0"`
	CacheSize    int           `yaml:"cacheSize,omitempty" validate:"gte=0"`
	Timeout      time.Duration `yaml:"timeout,omitempty" validate:"gte=0"`
}

// InferenceConfig points at the completion endpoint.
type InferenceConfig struct {
	URL          string        `yaml:"url" validate:"required,url"`
	Model        string        `yaml:"model" validate:"required"`
	APIKey       string        `yaml:"apiKey,omitempty"`
	APIKeySecret string        `yaml:"apiKeySecret,omitempty"`
	MaxTokens    int           `yaml:"maxTokens" validate:"gt=0"`
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
}

// RetrievalConfig tunes context selection.
type RetrievalConfig struct {
	TopK         int     `yaml:"topK" validate:"gt=0"`
	MinScore     float32 `yaml:"minScore,omitempty" validate:"gte=0,lte=1"`
	SystemPrompt string  `yaml:"systemPrompt,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool   `yaml:"json,omitempty"`
}

// MCPServerConfig defines MCP server settings.
type MCPServerConfig struct {
	Addr string `yaml:"addr"`
	Port int    `yaml:"port" validate:"gte=0,lte=65535"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr,omitempty"`
}

// DefaultConfig returns the stock local deployment: vLLM on :8000, Ollama
// MiniLM embeddings and a SQLite index.
func DefaultConfig() *Config {
	return &Config{
		DataFolder: DefaultDataFolder,
		Collection: DefaultCollection,
		Store:      StoreConfig{Driver: DriverSQLite, DSN: DefaultDSN},
		Embedder: EmbedderConfig{
			Provider: ProviderOllama,
			Model:    DefaultEmbedModel,
		},
		Inference: InferenceConfig{
			URL:       inference.DefaultURL,
			Model:     inference.DefaultModel,
			MaxTokens: inference.DefaultMaxTokens,
			Timeout:   inference.DefaultTimeout,
		},
		Chunker:   chunker.DefaultSettings(),
		Retrieval: RetrievalConfig{TopK: DefaultTopK},
		Log:       LogConfig{Level: "info"},
		MCPServer: MCPServerConfig{Addr: "localhost", Port: DefaultMCPPort},
		Metrics:   MetricsConfig{Addr: ":9090"},
	}
}

// LoadConfig reads an optional YAML file over the defaults, applies
// environment overrides, resolves secrets and validates the result.
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		expanded, err := expandUserPath(path)
		if err != nil {
			return nil, err
		}
		if expanded, err = filepath.Abs(expanded); err != nil {
			return nil, err
		}
		data, err := afs.New().DownloadWithURL(ctx, expanded)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.resolve(ctx); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from .env style files that exist; variables
// already set in the environment win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, target *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*target = strings.TrimSpace(v)
		}
	}
	set("VLLM_URL", &c.Inference.URL)
	set("VLLM_MODEL", &c.Inference.Model)
	set("VLLM_API_KEY", &c.Inference.APIKey)
	set("SOVEREIGN_DATA", &c.DataFolder)
	set("SOVEREIGN_DB", &c.Store.DSN)
	set("SOVEREIGN_COLLECTION", &c.Collection)
	switch c.Embedder.Provider {
	case ProviderOllama:
		set("OLLAMA_BASE_URL", &c.Embedder.BaseURL)
	case ProviderOpenAI:
		set("OPENAI_API_KEY", &c.Embedder.APIKey)
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) resolve(ctx context.Context) error {
	var err error
	if c.DataFolder, err = expandUserPath(c.DataFolder); err != nil {
		return err
	}
	if c.Store.Dir, err = expandUserPath(c.Store.Dir); err != nil {
		return err
	}
	if c.Store.DSN, err = expandUserPath(c.Store.DSN); err != nil {
		return err
	}
	if c.Store.DSN, err = ExpandWithSecret(ctx, c.Store.DSN, c.Store.Secret); err != nil {
		return err
	}
	if c.Inference.APIKey, err = expandKey(ctx, c.Inference.APIKey, c.Inference.APIKeySecret); err != nil {
		return err
	}
	if c.Embedder.APIKey, err = expandKey(ctx, c.Embedder.APIKey, c.Embedder.APIKeySecret); err != nil {
		return err
	}
	return nil
}

// expandKey resolves an API key template such as "${Password}" against a secret.
func expandKey(ctx context.Context, template, secretRef string) (string, error) {
	if strings.TrimSpace(secretRef) == "" {
		return template, nil
	}
	if template == "" {
		template = "${Password}"
	}
	return ExpandWithSecret(ctx, template, secretRef)
}

// ExpandWithSecret loads a secret and expands placeholders in text.
func ExpandWithSecret(ctx context.Context, text, secretRef string) (string, error) {
	secretRef = strings.TrimSpace(secretRef)
	if secretRef == "" {
		return text, nil
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("secret %q provided but value is empty", secretRef)
	}
	svc := secret.New()
	sec, err := svc.Lookup(ctx, secret.Resource(secretRef))
	if err != nil {
		return "", err
	}
	return sec.Expand(text), nil
}

func expandUserPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed[0] != '~' {
		return path, nil
	}
	if trimmed != "~" && !strings.HasPrefix(trimmed, "~/") {
		return "", fmt.Errorf("config: unsupported ~user path: %s", path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if trimmed == "~" {
		return home, nil
	}
	return filepath.Join(home, trimmed[2:]), nil
}
