package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SkuScraper/internal/app"
	"SkuScraper/internal/server"
	"SkuScraper/pkg/config"
	"SkuScraper/pkg/logger"

	"github.com/lmittmann/tint"
)

func main() {
	configPath := flag.String("config", "config.yml", "Path to the YAML config file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error); overrides config")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Setup("info").Error("failed to load config", tint.Err(err))
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	logger.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize application", tint.Err(err))
		os.Exit(1)
	}
	defer application.Close()

	srv := server.New(application)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server stopped", tint.Err(err))
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			slog.Error("graceful shutdown failed", tint.Err(err))
		}
	}
}
