package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/geosentinal/slope-risk-service/internal/adapter/http"
	kafkaadapter "github.com/geosentinal/slope-risk-service/internal/adapter/kafka"
	"github.com/geosentinal/slope-risk-service/internal/adapter/ws"
	"github.com/geosentinal/slope-risk-service/internal/config"
	"github.com/geosentinal/slope-risk-service/internal/dashboard"
	"github.com/geosentinal/slope-risk-service/internal/domain"
	"github.com/geosentinal/slope-risk-service/internal/engine"
	"github.com/geosentinal/slope-risk-service/internal/geomap"
	"github.com/geosentinal/slope-risk-service/internal/history"
	"github.com/geosentinal/slope-risk-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// A fixed seed makes auto-mode runs reproducible for debugging.
	var rng domain.Rand = domain.SystemRand{}
	if cfg.RandomSeed != 0 {
		rng = domain.NewSeededRand(cfg.RandomSeed)
		logger.Info("using seeded random source", "seed", cfg.RandomSeed)
	}

	catalog := domain.SiteCatalog()
	scorer := domain.NewScorer(rng)
	buffer := history.NewBuffer(cfg.HistoryCapacity)
	clock := clockwork.NewRealClock()

	cycle := engine.NewCycle(catalog, scorer, buffer, rng, clock, logger, metrics)

	// DEM overlay is feature-flagged via DEM_OVERLAY_PATH; the map
	// degrades to plain tiles when the artifact is missing.
	overlay := geomap.LoadOverlay(cfg.DEMOverlayPath, cfg.DEMBounds, logger)
	if overlay != nil {
		metrics.DEMAvailable.Set(1)
	}

	maps := geomap.NewBuilder(catalog, scorer, overlay, logger)
	assembler := dashboard.NewAssembler(catalog, buffer, maps)
	hub := ws.NewHub(assembler, logger, metrics)

	sinks := []engine.Sink{hub}
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger, metrics)
		sinks = append(sinks, publisher)
		logger.Info("kafka tick publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka tick publishing disabled")
	}

	runner := engine.NewRunner(cycle, clock, logger, metrics, cfg.AutoInterval, sinks...)

	api := httpadapter.NewAPI(cycle, runner, assembler, overlay, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, api, cycle, hub, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the auto-tick loop (parked until the mode endpoint enables it).
	go func() {
		if err := runner.Run(ctx); err != nil {
			logger.Error("runner error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
