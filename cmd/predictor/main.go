package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/riskibarqy/matchday-predictor/internal/app"
	"github.com/riskibarqy/matchday-predictor/internal/config"
	"github.com/riskibarqy/matchday-predictor/internal/observability"
	"github.com/riskibarqy/matchday-predictor/internal/platform/id"
	"github.com/riskibarqy/matchday-predictor/internal/platform/logging"
)

var runTracer = otel.Tracer("matchday-predictor/cmd/predictor")

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	base := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(base)

	runID, err := id.NewRunID()
	if err != nil {
		base.Warn("generate run id", "error", err)
		runID = "unknown"
	}
	logger := base.With("run_id", runID, "service", cfg.ServiceName, "env", cfg.AppEnv)

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		_ = base.Sync()
		os.Exit(1)
	}
	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		shutdownTelemetry(logger, shutdownTracing, func() error { return nil })
		_ = base.Sync()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Root span for the whole run; usecase and transport spans nest under
	// it. With tracing disabled the global provider is a noop, so this and
	// every child span stay noop.
	ctx, runSpan := runTracer.Start(ctx, "predictor.run")

	svc := app.NewPredictionPipeline(cfg, logger)

	logger.InfoContext(ctx, "prediction run starting",
		"competition", cfg.CompetitionCode,
		"window_days", cfg.FixtureWindowDays,
		"model", cfg.GeminiModel,
		"output_path", cfg.OutputPath,
	)

	result, err := svc.Run(ctx)
	runSpan.End()
	if err != nil {
		logger.ErrorContext(ctx, "prediction run failed", "error", err)
		shutdownTelemetry(logger, shutdownTracing, stopProfiling)
		_ = base.Sync()
		os.Exit(1)
	}

	logger.InfoContext(ctx, "prediction run finished",
		"standings_rows", result.StandingsRows,
		"fixtures_in_window", result.FixturesInWindow,
		"fixtures_prompted", result.FixturesPrompted,
		"matchday", result.Matchday,
		"predictions", result.Predictions,
		"duration", result.Duration,
	)

	shutdownTelemetry(logger, shutdownTracing, stopProfiling)
	_ = base.Sync()
}

// shutdownTelemetry flushes pending spans and profiles before the process
// exits; a one-shot run would otherwise drop everything still buffered.
func shutdownTelemetry(logger *logging.Logger, shutdownTracing func(context.Context) error, stopProfiling func() error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := shutdownTracing(ctx); err != nil {
		logger.Error("shutdown tracing", "error", err)
	}
	if err := stopProfiling(); err != nil {
		logger.Error("stop profiling", "error", err)
	}
}
