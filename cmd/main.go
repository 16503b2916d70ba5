package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/ollama-health/config"
	"github.com/angeloszaimis/ollama-health/internal/handler"
	"github.com/angeloszaimis/ollama-health/internal/healthcheck"
	"github.com/angeloszaimis/ollama-health/internal/httpserver"
	"github.com/angeloszaimis/ollama-health/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, true, cfg.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		cancel()
		os.Exit(1)
	}
}

// run serves probes until ctx is cancelled or the server fails. The upstream
// client lives exactly as long as this call.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	checker, err := newUpstreamChecker(cfg)
	if err != nil {
		log.Error("Failed to create upstream client", slog.Any("err", err))
		return err
	}
	defer func() {
		checker.Close()
		log.Info("Health server shutdown complete")
	}()

	probeHandler := handler.NewProbeHandler(log, checker)

	srv, err := httpserver.New(cfg.HTTPAddr(), setupRouter(probeHandler))
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		return err
	}

	log.Info("Starting health server",
		slog.String("addr", srv.Addr().String()),
		slog.Int("port", cfg.HealthPort))
	log.Info("Monitoring upstream",
		slog.String("url", checker.URL().String()),
		slog.Duration("timeout", checker.Timeout()))

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
			return err
		}
		return <-srvErrCh
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error serving health checks", slog.Any("err", err))
		}
		return err
	}
}

func newUpstreamChecker(cfg *config.Config) (*healthcheck.Checker, error) {
	return healthcheck.New(cfg.UpstreamPort, cfg.ProbeTimeoutDuration())
}
