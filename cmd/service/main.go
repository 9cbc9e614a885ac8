// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mnehmos/provecalc-engine/internal/adapters/http"
	"github.com/Mnehmos/provecalc-engine/internal/adapters/http/handlers"
	"github.com/Mnehmos/provecalc-engine/internal/app"
	"github.com/Mnehmos/provecalc-engine/internal/platform/config"
	"github.com/Mnehmos/provecalc-engine/internal/platform/logging"
	"github.com/Mnehmos/provecalc-engine/internal/platform/telemetry"
	"github.com/Mnehmos/provecalc-engine/internal/ports"
	"github.com/Mnehmos/provecalc-engine/internal/units"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create the unit registry and application services
	registry := units.NewRegistry()

	engine := app.NewEngine(app.EngineConfig{
		Logger: logger,
		Options: app.Options{
			Tolerance:     cfg.Compute.Tolerance,
			MaxIterations: cfg.Compute.MaxIterations,
			BracketLow:    cfg.Compute.BracketLow,
			BracketHigh:   cfg.Compute.BracketHigh,
			MaxPlotPoints: cfg.Compute.MaxPlotPoints,
		},
	})
	unitsService := app.NewUnitsService(logger, registry)

	// 6. Create health registry with self checks
	healthRegistry := ports.NewHealthRegistry()

	if err := healthRegistry.Register(ports.CheckerFunc{
		CheckName: "engine",
		Fn: func(ctx context.Context) error {
			_, evalErr := engine.Evaluate(ctx, ports.EvaluateRequest{Expression: "1 + 1"})
			return evalErr
		},
	}); err != nil {
		return fmt.Errorf("registering engine health check: %w", err)
	}

	if err := healthRegistry.Register(ports.CheckerFunc{
		CheckName: "units",
		Fn: func(ctx context.Context) error {
			_, convErr := unitsService.Convert(ctx, 1, "m", "km")
			return convErr
		},
	}); err != nil {
		return fmt.Errorf("registering units health check: %w", err)
	}

	// 7. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	computeHandler := handlers.NewComputeHandler(engine, unitsService)
	unitsHandler := handlers.NewUnitsHandler(unitsService)

	// 8. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 9. Setup router with all middleware and routes
	routerCfg := http.RouterConfig{
		Logger:         logger,
		AuthConfig:     &cfg.Auth,
		AppConfig:      &cfg.App,
		HealthHandler:  healthHandler,
		ComputeHandler: computeHandler,
		UnitsHandler:   unitsHandler,
		Timeout:        cfg.Compute.RequestTimeout,
	}
	http.SetupRouter(server.Engine(), routerCfg)

	// 10. Start server (non-blocking)
	serverErr := server.Start()

	// 11. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		// Server error during startup or runtime
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	// Graceful shutdown sequence
	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
