// Package di wires the alignment service together: configuration in,
// a fully constructed pipeline out. Every collaborator is built and
// injected here; nothing in the pipeline reaches for global state.
package di

import (
	"context"

	"github.com/nimyab/word-aligner/internal/align"
	"github.com/nimyab/word-aligner/internal/config"
	"github.com/nimyab/word-aligner/internal/embedding"
	"github.com/nimyab/word-aligner/internal/logging"
	"github.com/nimyab/word-aligner/internal/observability"
	"github.com/nimyab/word-aligner/internal/server/ports"
	"github.com/nimyab/word-aligner/internal/similarity"
)

// Container holds the constructed service graph.
type Container struct {
	Config        *config.Config
	Observability *observability.Observability
	Embedder      embedding.Embedder
	Provider      similarity.Provider
	Aligner       *align.Aligner
	Coordinator   ports.AlignmentService
	Health        ports.HealthChecker

	logger logging.Logger
}

// Build constructs the container from a validated configuration.
// Construction is fail-fast: any misconfiguration surfaces as a
// ConfigError before the service starts serving.
func Build(cfg *config.Config) (*Container, error) {
	return newBuilder(cfg).build()
}

// Cleanup releases container resources in reverse construction order.
func (c *Container) Cleanup(ctx context.Context) error {
	c.logger.Info("Cleaning up container")
	if c.Observability != nil {
		return c.Observability.Shutdown(ctx)
	}
	return nil
}
