package observability

// Config groups the observability knobs: logging, Prometheus metrics and
// OpenTelemetry tracing. The zero value disables metrics and tracing; use
// DefaultConfig for the usual starting point.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig controls the process-wide log sink.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	// Path is where the scrape handler is mounted, normally /metrics.
	Path string `yaml:"path"`
}

// TracingConfig controls distributed tracing.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
	// Exporter selects the backend: otlp or zipkin.
	Exporter       string `yaml:"exporter"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	ZipkinEndpoint string `yaml:"zipkin_endpoint"`
	ServiceName    string `yaml:"service_name"`
	// SampleRate is the fraction of requests to trace, in [0, 1].
	SampleRate float64 `yaml:"sample_rate"`
}

// Exporter names accepted by TracingConfig.
const (
	ExporterOTLP   = "otlp"
	ExporterZipkin = "zipkin"
)

// DefaultConfig returns the observability defaults: info logging, metrics
// on :9090/metrics, tracing disabled.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    9090,
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     ExporterOTLP,
			OTLPEndpoint: "localhost:4318",
			ServiceName:  "word-aligner",
			SampleRate:   0.1,
		},
	}
}
