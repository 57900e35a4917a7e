package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/nimyab/word-aligner/internal/errors"
	"github.com/nimyab/word-aligner/internal/matching"
)

// EnvLookup resolves an environment variable. Tests swap it out so they
// never touch the process environment.
type EnvLookup func(key string) (string, bool)

// DefaultEnvLookup reads the process environment.
func DefaultEnvLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

type loadOptions struct {
	envLookup EnvLookup
	readFile  func(name string) ([]byte, error)
}

// Option customizes Load.
type Option func(*loadOptions)

// WithEnv replaces the environment lookup.
func WithEnv(lookup EnvLookup) Option {
	return func(o *loadOptions) {
		if lookup != nil {
			o.envLookup = lookup
		}
	}
}

// WithFileReader replaces the file reader.
func WithFileReader(read func(name string) ([]byte, error)) Option {
	return func(o *loadOptions) {
		if read != nil {
			o.readFile = read
		}
	}
}

// Load builds the configuration: defaults first, then the YAML file at
// path when path is non-empty, then environment overrides. The result
// is validated; any problem comes back as a ConfigError.
func Load(path string, opts ...Option) (*Config, error) {
	options := loadOptions{
		envLookup: DefaultEnvLookup,
		readFile:  os.ReadFile,
	}
	for _, opt := range opts {
		opt(&options)
	}

	cfg := Default()

	if path != "" {
		data, err := options.readFile(path)
		if err != nil {
			return nil, apperrors.NewConfig("file", "read %s: %v", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, apperrors.NewConfig("file", "parse %s: %v", path, err)
		}
	}

	if err := applyEnv(&cfg, options.envLookup); err != nil {
		return nil, err
	}

	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv layers WORDALIGN_* variables over the current values. Unset
// and empty variables leave the value alone; unparseable numbers and
// booleans are configuration errors.
func applyEnv(cfg *Config, lookup EnvLookup) error {
	if lookup == nil {
		lookup = DefaultEnvLookup
	}

	var firstErr error

	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			if firstErr == nil {
				firstErr = apperrors.NewConfig(key, "invalid integer %q", v)
			}
			return
		}
		*dst = n
	}
	setInt64 := func(key string, dst *int64) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			if firstErr == nil {
				firstErr = apperrors.NewConfig(key, "invalid integer %q", v)
			}
			return
		}
		*dst = n
	}
	setBool := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			if firstErr == nil {
				firstErr = apperrors.NewConfig(key, "invalid boolean %q", v)
			}
			return
		}
		*dst = b
	}
	setFloat := func(key string, dst *float64) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			if firstErr == nil {
				firstErr = apperrors.NewConfig(key, "invalid number %q", v)
			}
			return
		}
		*dst = f
	}

	setString("WORDALIGN_HOST", &cfg.Server.Host)
	setInt("WORDALIGN_PORT", &cfg.Server.Port)
	setInt("WORDALIGN_READ_TIMEOUT", &cfg.Server.ReadTimeoutSeconds)
	setInt("WORDALIGN_WRITE_TIMEOUT", &cfg.Server.WriteTimeoutSeconds)
	setInt("WORDALIGN_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeoutSeconds)
	setInt64("WORDALIGN_MAX_BODY_BYTES", &cfg.Server.MaxBodyBytes)
	setBool("WORDALIGN_DEBUG", &cfg.Server.Debug)

	setString("WORDALIGN_METHOD", &cfg.Align.DefaultMethod)
	setInt("WORDALIGN_MAX_TOKENS", &cfg.Align.MaxTokensPerSide)

	setString("WORDALIGN_EMBEDDING_PROVIDER", &cfg.Embedding.Provider)
	setString("WORDALIGN_EMBEDDING_MODEL", &cfg.Embedding.Model)
	setString("WORDALIGN_EMBEDDING_API_KEY", &cfg.Embedding.APIKey)
	setString("WORDALIGN_EMBEDDING_BASE_URL", &cfg.Embedding.BaseURL)
	setInt("WORDALIGN_EMBEDDING_TIMEOUT", &cfg.Embedding.TimeoutSeconds)
	setInt("WORDALIGN_EMBEDDING_CACHE_SIZE", &cfg.Embedding.CacheSize)
	setInt("WORDALIGN_EMBEDDING_BATCH_SIZE", &cfg.Embedding.BatchSize)
	setInt("WORDALIGN_EMBEDDING_DIMENSIONS", &cfg.Embedding.Dimensions)

	// The conventional variable works as a fallback so OpenAI users
	// do not have to set the key twice.
	if cfg.Embedding.APIKey == "" {
		setString("OPENAI_API_KEY", &cfg.Embedding.APIKey)
	}

	setString("WORDALIGN_LOG_LEVEL", &cfg.Observability.Logging.Level)
	setBool("WORDALIGN_METRICS_ENABLED", &cfg.Observability.Metrics.Enabled)
	setString("WORDALIGN_METRICS_HOST", &cfg.Observability.Metrics.Host)
	setInt("WORDALIGN_METRICS_PORT", &cfg.Observability.Metrics.Port)
	setBool("WORDALIGN_TRACING_ENABLED", &cfg.Observability.Tracing.Enabled)
	setString("WORDALIGN_TRACING_EXPORTER", &cfg.Observability.Tracing.Exporter)
	setString("WORDALIGN_TRACING_OTLP_ENDPOINT", &cfg.Observability.Tracing.OTLPEndpoint)
	setString("WORDALIGN_TRACING_ZIPKIN_ENDPOINT", &cfg.Observability.Tracing.ZipkinEndpoint)
	setFloat("WORDALIGN_TRACING_SAMPLE_RATE", &cfg.Observability.Tracing.SampleRate)

	return firstErr
}

func normalize(cfg *Config) {
	cfg.Server.Host = strings.TrimSpace(cfg.Server.Host)
	cfg.Align.DefaultMethod = strings.ToLower(strings.TrimSpace(cfg.Align.DefaultMethod))
	// Single-letter aliases become their canonical labels so the rest
	// of the service only ever sees full method names.
	if m, err := matching.ParseMethod(cfg.Align.DefaultMethod); err == nil {
		cfg.Align.DefaultMethod = string(m)
	}
	cfg.Embedding.Provider = strings.ToLower(strings.TrimSpace(cfg.Embedding.Provider))
	cfg.Embedding.Model = strings.TrimSpace(cfg.Embedding.Model)
	cfg.Embedding.APIKey = strings.TrimSpace(cfg.Embedding.APIKey)
	cfg.Embedding.BaseURL = strings.TrimSpace(cfg.Embedding.BaseURL)
	cfg.Observability.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Observability.Logging.Level))
	cfg.Observability.Tracing.Exporter = strings.ToLower(strings.TrimSpace(cfg.Observability.Tracing.Exporter))

	if cfg.Embedding.CacheSize < 0 {
		cfg.Embedding.CacheSize = 0
	}
	if cfg.Embedding.BatchSize < 0 {
		cfg.Embedding.BatchSize = 0
	}
}
