package di

import (
	"github.com/nimyab/word-aligner/internal/align"
	"github.com/nimyab/word-aligner/internal/config"
	"github.com/nimyab/word-aligner/internal/embedding"
	apperrors "github.com/nimyab/word-aligner/internal/errors"
	"github.com/nimyab/word-aligner/internal/logging"
	"github.com/nimyab/word-aligner/internal/matching"
	"github.com/nimyab/word-aligner/internal/observability"
	"github.com/nimyab/word-aligner/internal/server/app"
	"github.com/nimyab/word-aligner/internal/similarity"
)

type containerBuilder struct {
	cfg    *config.Config
	logger logging.Logger
}

func newBuilder(cfg *config.Config) *containerBuilder {
	return &containerBuilder{cfg: cfg}
}

func (b *containerBuilder) build() (*Container, error) {
	if b.cfg == nil {
		return nil, apperrors.NewConfig("config", "configuration is required")
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	obs, err := observability.New(b.cfg.Observability)
	if err != nil {
		return nil, err
	}
	// The observability constructor configures the process log sink,
	// so component loggers are created after it.
	b.logger = logging.NewComponentLogger("di")

	embedder, provider, err := b.buildProvider(obs)
	if err != nil {
		return nil, err
	}

	method, err := matching.ParseMethod(b.cfg.Align.DefaultMethod)
	if err != nil {
		return nil, apperrors.NewConfig("align.default_method", "%v", err)
	}

	aligner, err := align.New(provider, align.Config{
		DefaultMethod:    method,
		MaxTokensPerSide: b.cfg.Align.MaxTokensPerSide,
		Logger:           logging.NewComponentLogger("align"),
	})
	if err != nil {
		return nil, err
	}

	coordinator := app.NewCoordinator(aligner, app.WithObservability(obs))

	health := app.NewHealthChecker()
	health.RegisterProbe(app.NewProviderProbe(provider, b.cfg.Embedding.Timeout()))

	// The scrape endpoint is already listening when metrics are
	// enabled: the observability constructor starts it.
	b.logger.Info("Container built: provider=%s default_method=%s", provider.Name(), method)

	return &Container{
		Config:        b.cfg,
		Observability: obs,
		Embedder:      embedder,
		Provider:      provider,
		Aligner:       aligner,
		Coordinator:   coordinator,
		Health:        health,
		logger:        b.logger,
	}, nil
}

// buildProvider constructs the similarity provider. The embedding
// backed providers get an LRU cache decorator; the cache feeds its
// hit/miss counters into the metrics collector.
func (b *containerBuilder) buildProvider(obs *observability.Observability) (embedding.Embedder, similarity.Provider, error) {
	cfg := b.cfg.Embedding

	var embedder embedding.Embedder
	switch cfg.Provider {
	case config.ProviderLexical:
		return nil, similarity.NewLexical(), nil
	case config.ProviderMock:
		embedder = embedding.NewMock(cfg.Dimensions)
	case config.ProviderOpenAI:
		embedder = embedding.NewOpenAI(embedding.OpenAIConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			Dimensions: cfg.Dimensions,
		})
	case config.ProviderOllama:
		embedder = embedding.NewOllama(embedding.OllamaConfig{
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout(),
			Logger:  logging.NewComponentLogger("ollama-embed"),
		})
	default:
		return nil, nil, apperrors.NewConfig("embedding.provider", "unknown provider %q", cfg.Provider)
	}

	cached, err := embedding.NewCached(embedder, cfg.CacheSize)
	if err != nil {
		return nil, nil, apperrors.NewConfig("embedding.cache_size", "%v", err)
	}
	if err := obs.Metrics.RegisterCacheStats("embedding", cached.Stats); err != nil {
		b.logger.Error("Failed to register cache metrics, continuing without: %v", err)
	}

	return cached, similarity.NewEmbeddingProvider(cached, cfg.BatchSize), nil
}
