package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	httpadapter "github.com/quakewatch/tsunami-monitor/internal/adapter/http"
	kafkaadapter "github.com/quakewatch/tsunami-monitor/internal/adapter/kafka"
	"github.com/quakewatch/tsunami-monitor/internal/adapter/usgs"
	"github.com/quakewatch/tsunami-monitor/internal/config"
	"github.com/quakewatch/tsunami-monitor/internal/domain"
	"github.com/quakewatch/tsunami-monitor/internal/model"
	"github.com/quakewatch/tsunami-monitor/internal/monitor"
	"github.com/quakewatch/tsunami-monitor/internal/observability"
)

func main() {
	_ = godotenv.Load() // optional .env for local development

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Load the model bundle once; a failure disables scoring but leaves the
	// rest of the service (event listing, health, metrics) functional.
	var scorer *model.Scorer
	var engineer *domain.FeatureEngineer
	bundle, err := model.LoadBundle(cfg.ModelDir)
	if err != nil {
		logger.Error("model artifacts unavailable, scoring disabled", "model_dir", cfg.ModelDir, "error", err)
		metrics.ScoringAvailable.Set(0)
	} else {
		engineer, err = domain.NewFeatureEngineer(bundle.Schema)
		if err != nil {
			logger.Error("model schema rejected, scoring disabled", "model_dir", cfg.ModelDir, "error", err)
			metrics.ScoringAvailable.Set(0)
		} else {
			scorer = model.NewScorer(bundle)
			metrics.ScoringAvailable.Set(1)
			logger.Info("model bundle loaded", "model_dir", cfg.ModelDir, "features", len(bundle.Schema))
		}
	}

	fetcher := usgs.NewClient(cfg.USGSBaseURL, cfg.USGSTimeout, clock, logger, metrics)
	evaluator := monitor.NewEvaluator(engineer, scorer, clock, logger, metrics)

	// Alert publishing is feature-flagged; the poller treats a nil
	// publisher as "render snapshot only".
	var publisher monitor.AlertPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka alert publishing enabled", "topic", cfg.KafkaAlertTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka alert publishing disabled")
	}

	poller := monitor.NewPoller(fetcher, evaluator, publisher, clock, logger, metrics, monitor.Options{
		Window:         cfg.PollWindow,
		MinMagnitude:   cfg.MinMagnitude,
		AlertThreshold: cfg.AlertThreshold,
		Interval:       cfg.PollInterval,
		AutoRefresh:    cfg.AutoRefresh,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, poller, evaluator, poller, clock, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the poll loop.
	go func() {
		if err := poller.Run(ctx); err != nil {
			logger.Error("poller error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
