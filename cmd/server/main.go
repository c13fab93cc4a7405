package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/meur/attractions-admin/internal/client"
	"github.com/meur/attractions-admin/internal/config"
	"github.com/meur/attractions-admin/internal/logger"
	"github.com/meur/attractions-admin/internal/web"
)

func main() {
	bootLog, _ := zap.NewProduction()
	if err := config.LoadDotEnv(); err != nil {
		bootLog.Fatal("Failed to load .env", zap.Error(err))
	}
	cfg, err := config.LoadPanel()
	if err != nil {
		bootLog.Fatal("Failed to load config", zap.Error(err))
	}

	// Flags override the environment
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "Attractions API base URL")
	flag.DurationVar(&cfg.APITimeout, "timeout", cfg.APITimeout, "API request timeout")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		bootLog.Fatal("Failed to build logger", zap.Error(err))
	}
	defer log.Sync()

	api, err := client.New(cfg.APIBaseURL, client.WithTimeout(cfg.APITimeout))
	if err != nil {
		log.Fatal("Failed to create API client", zap.Error(err))
	}

	srv, err := web.New(api, web.Config{
		AssetBaseURL:   cfg.APIBaseURL,
		AllowedOrigins: cfg.CORSOrigins,
		SessionTTL:     cfg.SessionTTL,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to create panel server", zap.Error(err))
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("🚀 Attractions admin starting", zap.String("addr", cfg.Addr))
		log.Info("📡 Attractions API", zap.String("url", cfg.APIBaseURL), zap.Duration("timeout", cfg.APITimeout))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	waitForShutdown(log, httpSrv)
}

func waitForShutdown(log *zap.Logger, srv *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
