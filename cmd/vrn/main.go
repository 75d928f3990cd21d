package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/vrn-registry/internal/adapter/airtable"
	httpadapter "github.com/couchcryptid/vrn-registry/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/vrn-registry/internal/adapter/kafka"
	"github.com/couchcryptid/vrn-registry/internal/config"
	"github.com/couchcryptid/vrn-registry/internal/content"
	"github.com/couchcryptid/vrn-registry/internal/directory"
	"github.com/couchcryptid/vrn-registry/internal/observability"
	"github.com/couchcryptid/vrn-registry/internal/signup"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	// A .env file is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	client := airtable.NewClient(airtable.SettingsFromConfig(cfg), logger)
	logger.Info("provider source configured", "mode", client.Mode())

	dir := directory.New(client, clock, logger, metrics)

	var sink signup.Sink
	var writer *kafkaadapter.Writer
	if cfg.SignupSinkEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sink = writer
		logger.Info("sign-ups publish to kafka", "topic", cfg.KafkaSignupTopic)
	} else {
		sink = signup.NewLogSink(logger)
		logger.Info("sign-ups are logged only")
	}
	signups := signup.NewService(sink, clock, logger, metrics)

	site, err := content.Load(cfg.ContentFile)
	if err != nil {
		logger.Error("failed to load content", "error", err)
		os.Exit(1)
	}
	pages := content.NewStore(site, logger, metrics)

	h := httpadapter.NewHandler(client, dir, signups, pages, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, cfg.CORSOrigin, h, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.ContentFile != "" {
		if err := pages.Watch(ctx, cfg.ContentFile); err != nil {
			logger.Warn("content watch disabled", "path", cfg.ContentFile, "error", err)
		}
	}

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Initial provider load. A failure leaves the directory empty with the
	// user-facing error set; POST /api/directory/refresh retries.
	go func() {
		_ = dir.Run(ctx)
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
