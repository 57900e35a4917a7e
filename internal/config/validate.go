package config

import (
	apperrors "github.com/nimyab/word-aligner/internal/errors"
	"github.com/nimyab/word-aligner/internal/logging"
	"github.com/nimyab/word-aligner/internal/matching"
	"github.com/nimyab/word-aligner/internal/observability"
)

// Validate checks every section and returns a ConfigError naming the
// first offending field.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return apperrors.NewConfig("server.port", "must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds < 0 {
		return apperrors.NewConfig("server.read_timeout_seconds", "must not be negative, got %d", c.Server.ReadTimeoutSeconds)
	}
	if c.Server.WriteTimeoutSeconds < 0 {
		return apperrors.NewConfig("server.write_timeout_seconds", "must not be negative, got %d", c.Server.WriteTimeoutSeconds)
	}
	if c.Server.ShutdownTimeoutSeconds < 0 {
		return apperrors.NewConfig("server.shutdown_timeout_seconds", "must not be negative, got %d", c.Server.ShutdownTimeoutSeconds)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return apperrors.NewConfig("server.max_body_bytes", "must be positive, got %d", c.Server.MaxBodyBytes)
	}

	if _, err := matching.ParseMethod(c.Align.DefaultMethod); err != nil {
		return apperrors.NewConfig("align.default_method", "%v", err)
	}
	if c.Align.MaxTokensPerSide < 0 {
		return apperrors.NewConfig("align.max_tokens_per_side", "must not be negative, got %d", c.Align.MaxTokensPerSide)
	}

	switch c.Embedding.Provider {
	case ProviderOpenAI:
		if c.Embedding.APIKey == "" {
			return apperrors.NewConfig("embedding.api_key", "required for the openai provider")
		}
	case ProviderOllama, ProviderLexical, ProviderMock:
	default:
		return apperrors.NewConfig("embedding.provider", "unknown provider %q, supported: openai, ollama, lexical, mock", c.Embedding.Provider)
	}
	if c.Embedding.TimeoutSeconds <= 0 {
		return apperrors.NewConfig("embedding.timeout_seconds", "must be positive, got %d", c.Embedding.TimeoutSeconds)
	}
	if c.Embedding.Dimensions < 0 {
		return apperrors.NewConfig("embedding.dimensions", "must not be negative, got %d", c.Embedding.Dimensions)
	}

	if _, err := logging.ParseLevel(c.Observability.Logging.Level); err != nil {
		return apperrors.NewConfig("observability.logging.level", "%v", err)
	}

	if c.Observability.Metrics.Enabled {
		port := c.Observability.Metrics.Port
		if port < 1 || port > 65535 {
			return apperrors.NewConfig("observability.metrics.port", "must be in 1..65535, got %d", port)
		}
		if port == c.Server.Port {
			return apperrors.NewConfig("observability.metrics.port", "must differ from server.port %d", c.Server.Port)
		}
	}

	if c.Observability.Tracing.Enabled {
		switch c.Observability.Tracing.Exporter {
		case observability.ExporterOTLP, observability.ExporterZipkin:
		default:
			return apperrors.NewConfig("observability.tracing.exporter", "unknown exporter %q, supported: otlp, zipkin", c.Observability.Tracing.Exporter)
		}
		rate := c.Observability.Tracing.SampleRate
		if rate < 0 || rate > 1 {
			return apperrors.NewConfig("observability.tracing.sample_rate", "must be in [0, 1], got %v", rate)
		}
	}

	return nil
}
