// Package config defines the service configuration and loads it from
// defaults, an optional YAML file and WORDALIGN_* environment overrides,
// in that order. Invalid configuration is rejected at load time so the
// process fails fast instead of limping along.
package config

import (
	"fmt"
	"time"

	"github.com/nimyab/word-aligner/internal/observability"
)

// Embedding provider names accepted by EmbeddingConfig.Provider.
const (
	ProviderOpenAI  = "openai"
	ProviderOllama  = "ollama"
	ProviderLexical = "lexical"
	ProviderMock    = "mock"
)

// Config is the root configuration of the alignment service.
type Config struct {
	Server        ServerConfig         `yaml:"server"`
	Align         AlignConfig          `yaml:"align"`
	Embedding     EmbeddingConfig      `yaml:"embedding"`
	Observability observability.Config `yaml:"observability"`
}

// ServerConfig controls the HTTP listener. Timeouts are integer seconds
// so they read naturally in YAML and environment variables.
type ServerConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	ReadTimeoutSeconds     int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
	MaxBodyBytes           int64  `yaml:"max_body_bytes"`
	Debug                  bool   `yaml:"debug"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReadTimeout returns the configured read timeout.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the configured write timeout.
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns how long graceful shutdown may take.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// AlignConfig controls the alignment pipeline.
type AlignConfig struct {
	// DefaultMethod is used when a request does not name a method.
	DefaultMethod string `yaml:"default_method"`
	// MaxTokensPerSide rejects oversized sentences before the
	// similarity provider is called. Zero disables the limit.
	MaxTokensPerSide int `yaml:"max_tokens_per_side"`
}

// EmbeddingConfig selects and configures the similarity backend.
type EmbeddingConfig struct {
	// Provider is one of openai, ollama, lexical, mock.
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// CacheSize bounds the embedding LRU cache. Zero keeps the default.
	CacheSize int `yaml:"cache_size"`
	// BatchSize bounds how many tokens go to the provider per call.
	BatchSize int `yaml:"batch_size"`
	// Dimensions requests reduced-dimension embeddings where the
	// provider supports it. Zero keeps the model default.
	Dimensions int `yaml:"dimensions"`
}

// Timeout returns the per-call embedding timeout.
func (c EmbeddingConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns the configuration the service starts from: the
// listener on 0.0.0.0:8000 like the original service, mwmf matching and
// the lexical provider so the service works without credentials.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:                   "0.0.0.0",
			Port:                   8000,
			ReadTimeoutSeconds:     30,
			WriteTimeoutSeconds:    60,
			ShutdownTimeoutSeconds: 10,
			MaxBodyBytes:           1 << 20,
		},
		Align: AlignConfig{
			DefaultMethod:    "mwmf",
			MaxTokensPerSide: 512,
		},
		Embedding: EmbeddingConfig{
			Provider:       ProviderLexical,
			TimeoutSeconds: 30,
			CacheSize:      10000,
			BatchSize:      64,
		},
		Observability: observability.DefaultConfig(),
	}
}
