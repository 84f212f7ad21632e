package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/audio"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/classifier"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/config"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/features"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/metrics"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/pipeline"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("Starting voice antispoofing service",
		slog.String("config", *configPath),
		slog.Int("http_port", cfg.HTTP.Port),
		slog.String("classifier_endpoint", cfg.Classifier.Endpoint),
	)

	m := metrics.NewMetrics()

	client, err := classifier.NewClient(classifier.Config{
		Endpoint:      cfg.Classifier.Endpoint,
		APIKey:        cfg.Classifier.APIKey,
		Timeout:       cfg.Classifier.GetTimeoutDuration(),
		MaxRetries:    cfg.Classifier.MaxRetries,
		MaxConcurrent: cfg.Classifier.MaxConcurrent,
	})
	if err != nil {
		logger.Error("Failed to create classifier client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	adapter := classifier.NewAdapter(client, logger)

	decoder, err := audio.NewDecoder(cfg.Audio.TargetSampleRate, cfg.Audio.MaxDuration, cfg.Audio.AcceptedFormats)
	if err != nil {
		logger.Error("Failed to create audio decoder", slog.String("error", err.Error()))
		os.Exit(1)
	}

	extractor, err := features.NewExtractor(features.Config{
		PitchMinHz:        cfg.Features.PitchMinHz,
		PitchMaxHz:        cfg.Features.PitchMaxHz,
		PitchFrameLength:  cfg.Features.PitchFrameLength,
		PitchHopLength:    cfg.Features.PitchHopLength,
		YinThreshold:      cfg.Features.YinThreshold,
		EnergyFrameLength: cfg.Features.EnergyFrameLength,
		EnergyHopLength:   cfg.Features.EnergyHopLength,
	})
	if err != nil {
		logger.Error("Failed to create feature extractor", slog.String("error", err.Error()))
		os.Exit(1)
	}

	p := pipeline.New(decoder, extractor, adapter, m, logger)

	httpServer := server.NewHTTPServer(cfg, logger, m, p, client)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			logger.Error("HTTP server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("Failed to stop HTTP server gracefully", slog.String("error", err.Error()))
	}

	stats := client.GetStats()
	logger.Info("Service stopped",
		slog.Uint64("classifier_requests", stats.TotalRequests),
		slog.Uint64("classifier_failures", stats.FailedRequests),
		slog.Float64("classifier_success_rate", stats.SuccessRate),
	)
}

// initLogger creates a structured logger based on the logging configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = f
		}
	}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	return slog.New(handler)
}
