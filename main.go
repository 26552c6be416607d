package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"mediascribe/ai"
	"mediascribe/config"
	"mediascribe/handlers"
	"mediascribe/logger"
	"mediascribe/media"
	"mediascribe/middleware"
	"mediascribe/retry"
	"mediascribe/services/captions"
	"mediascribe/services/extract"
	"mediascribe/services/transcriber"
	"mediascribe/youtube"
)

func main() {
	cfg := config.Load()
	if err := config.ValidateConfig(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logger.Init(cfg.LogDir); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	staging, err := media.NewStaging(cfg.StagingDir)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize staging area")
	}

	ytClient := youtube.NewClient(cfg.YouTube.FetchInterval, cfg.YouTube.FetchBurst, cfg.YouTube.CacheTTL)
	resolver := youtube.NewResolver(cfg.YouTube.DataAPIKey, cfg.YouTube.CacheTTL,
		youtube.WithPlayerSource(ytClient))
	downloader := youtube.NewDownloader(staging)

	aiClient := ai.NewClient(cfg.OpenAI, cfg.Retry)
	audioExtractor := media.NewAudioExtractor(staging, cfg.FFmpegPath)

	strategies := extract.NewRegistry(aiClient, audioExtractor, downloader)

	captionService := captions.NewService(ytClient, ytClient, resolver, aiClient, captions.Config{
		RetryPolicy: retry.Policy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
			MaxDelay:    cfg.Retry.MaxDelay,
		},
	})
	transcriptionService := transcriber.NewService(strategies, aiClient, transcriber.Config{
		SummaryBestEffort: cfg.Summary.BestEffort,
	})

	handler := handlers.New(captionService, transcriptionService, aiClient, staging, cfg.Summary)

	mux := http.NewServeMux()
	handler.Register(mux)

	server := &http.Server{
		Addr: ":" + cfg.ServerPort,
		Handler: middleware.Chain(mux,
			middleware.RequestID(),
			middleware.Recovery(),
			middleware.Logging(),
			middleware.Timeout(cfg.RequestTimeout),
		),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logrus.WithField("port", cfg.ServerPort).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logrus.Info("Shutting down the server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server shutdown failed")
	}
}
