// The wordalign-server binary serves the word alignment API over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nimyab/word-aligner/internal/config"
	"github.com/nimyab/word-aligner/internal/di"
	"github.com/nimyab/word-aligner/internal/logging"
	serverHTTP "github.com/nimyab/word-aligner/internal/server/http"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to a wordalign.yaml config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "wordalign-server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	container, err := di.Build(cfg)
	if err != nil {
		return err
	}
	logger := logging.NewComponentLogger("main")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
		defer cancel()
		if err := container.Cleanup(ctx); err != nil {
			logger.Error("Cleanup failed: %v", err)
		}
	}()

	logger.Info("Starting word aligner server")
	logger.Info("Provider: %s, default method: %s, listen: %s",
		container.Provider.Name(), container.Coordinator.DefaultMethod(), cfg.Server.Addr())

	router := serverHTTP.NewRouter(container.Coordinator, container.Health, serverHTTP.RouterConfig{
		Debug:        cfg.Server.Debug,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Logger:       logging.NewComponentLogger("http"),
		Tracer:       container.Observability.Tracer,
	})

	// The stream endpoint hijacks its connection on upgrade, so the
	// server timeouts only govern the plain JSON endpoints.
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout(),
		WriteTimeout:      cfg.Server.WriteTimeout(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

// defaultConfigPath resolves the config file: the WORDALIGN_CONFIG
// variable wins, then wordalign.yaml in the working directory if it
// exists, otherwise built-in defaults.
func defaultConfigPath() string {
	if path := os.Getenv("WORDALIGN_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat("wordalign.yaml"); err == nil {
		return "wordalign.yaml"
	}
	return ""
}
