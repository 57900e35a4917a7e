package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/nimyab/word-aligner/internal/logging"
)

// MetricsCollector manages the alignment service metrics. The zero value is
// a no-op collector: every Record method checks for nil instruments, so a
// disabled configuration costs nothing at call sites.
type MetricsCollector struct {
	meter  metric.Meter
	logger logging.Logger

	// Alignment metrics
	alignRequests metric.Int64Counter
	alignLatency  metric.Float64Histogram
	alignPairs    metric.Int64Counter
	matrixCells   metric.Int64Histogram

	// Similarity provider metrics
	providerLatency metric.Float64Histogram

	// Server for Prometheus scraping
	prometheusServer *http.Server
}

// NewMetricsCollector creates a metrics collector backed by a Prometheus
// exporter and starts the scrape endpoint when the config enables it.
func NewMetricsCollector(config MetricsConfig, logger logging.Logger) (*MetricsCollector, error) {
	logger = logging.OrNop(logger)
	if !config.Enabled {
		return &MetricsCollector{logger: logger}, nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter("wordalign")

	alignRequests, err := meter.Int64Counter(
		"wordalign.align.requests.total",
		metric.WithDescription("Total number of alignment requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create align_requests counter: %w", err)
	}

	alignLatency, err := meter.Float64Histogram(
		"wordalign.align.latency",
		metric.WithDescription("Alignment request latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create align_latency histogram: %w", err)
	}

	alignPairs, err := meter.Int64Counter(
		"wordalign.align.pairs.total",
		metric.WithDescription("Total number of aligned word pairs produced"),
		metric.WithUnit("{pair}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create align_pairs counter: %w", err)
	}

	matrixCells, err := meter.Int64Histogram(
		"wordalign.align.matrix.cells",
		metric.WithDescription("Similarity matrix size per request, source x target tokens"),
		metric.WithUnit("{cell}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create matrix_cells histogram: %w", err)
	}

	providerLatency, err := meter.Float64Histogram(
		"wordalign.provider.latency",
		metric.WithDescription("Similarity provider latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider_latency histogram: %w", err)
	}

	collector := &MetricsCollector{
		meter:           meter,
		logger:          logger,
		alignRequests:   alignRequests,
		alignLatency:    alignLatency,
		alignPairs:      alignPairs,
		matrixCells:     matrixCells,
		providerLatency: providerLatency,
	}

	if config.Port > 0 {
		if err := collector.StartPrometheusServer(config.Host, config.Port, config.Path); err != nil {
			return nil, fmt.Errorf("failed to start prometheus server: %w", err)
		}
	}

	return collector, nil
}

// StartPrometheusServer starts the Prometheus metrics server. The
// constructor already starts it when the config enables metrics; a
// collector serves at most one listener, so a second call is a no-op.
func (m *MetricsCollector) StartPrometheusServer(host string, port int, path string) error {
	if m.prometheusServer != nil {
		return nil
	}
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promclient.Handler())

	m.prometheusServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		m.logger.Info("Prometheus metrics server listening on %s%s", m.prometheusServer.Addr, path)
		if err := m.prometheusServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("Prometheus server error: %v", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the metrics collector.
func (m *MetricsCollector) Shutdown(ctx context.Context) error {
	if m.prometheusServer != nil {
		return m.prometheusServer.Shutdown(ctx)
	}
	return nil
}

// RecordAlignment records one alignment request: outcome counter, latency
// and, on success, the pair count and matrix size.
func (m *MetricsCollector) RecordAlignment(ctx context.Context, method, status string, latency time.Duration, sourceTokens, targetTokens, pairs int) {
	if m.alignRequests == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("method", method),
		attribute.String("status", status),
	}

	m.alignRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.alignLatency.Record(ctx, latency.Seconds(), metric.WithAttributes(attrs...))
	if status == "ok" {
		methodAttr := metric.WithAttributes(attribute.String("method", method))
		m.alignPairs.Add(ctx, int64(pairs), methodAttr)
		m.matrixCells.Record(ctx, int64(sourceTokens)*int64(targetTokens), methodAttr)
	}
}

// RecordProviderLatency records how long the similarity provider took to
// build one matrix.
func (m *MetricsCollector) RecordProviderLatency(ctx context.Context, provider string, latency time.Duration) {
	if m.providerLatency == nil {
		return
	}
	m.providerLatency.Record(ctx, latency.Seconds(), metric.WithAttributes(attribute.String("provider", provider)))
}

// RegisterCacheStats exposes a cache's cumulative hit and miss counts as
// observable counters. The stats callback is polled on every scrape, so it
// must be cheap and safe to call concurrently.
func (m *MetricsCollector) RegisterCacheStats(cache string, stats func() (hits, misses uint64)) error {
	if m.meter == nil || stats == nil {
		return nil
	}

	hitsCounter, err := m.meter.Int64ObservableCounter(
		"wordalign.cache.hits.total",
		metric.WithDescription("Total cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache_hits counter: %w", err)
	}

	missesCounter, err := m.meter.Int64ObservableCounter(
		"wordalign.cache.misses.total",
		metric.WithDescription("Total cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache_misses counter: %w", err)
	}

	attrs := metric.WithAttributes(attribute.String("cache", cache))
	_, err = m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		hits, misses := stats()
		o.ObserveInt64(hitsCounter, int64(hits), attrs)
		o.ObserveInt64(missesCounter, int64(misses), attrs)
		return nil
	}, hitsCounter, missesCounter)
	if err != nil {
		return fmt.Errorf("failed to register cache stats callback: %w", err)
	}

	return nil
}
