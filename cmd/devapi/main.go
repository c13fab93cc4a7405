// Command devapi serves a local attractions API backed by sqlite, for
// developing the admin panel without the production backend.
package main

import (
	"flag"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/meur/attractions-admin/internal/api"
	"github.com/meur/attractions-admin/internal/config"
	"github.com/meur/attractions-admin/internal/logger"
	"github.com/meur/attractions-admin/internal/storage"
)

func main() {
	bootLog, _ := zap.NewProduction()
	if err := config.LoadDotEnv(); err != nil {
		bootLog.Fatal("Failed to load .env", zap.Error(err))
	}
	cfg, err := config.LoadDevAPI()
	if err != nil {
		bootLog.Fatal("Failed to load config", zap.Error(err))
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flag.StringVar(&cfg.UploadDir, "uploads", cfg.UploadDir, "Directory for uploaded images")
	flag.Parse()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		bootLog.Fatal("Failed to build logger", zap.Error(err))
	}
	defer log.Sync()

	// Initialize storage
	store, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	srv := api.New(store, api.Config{
		UploadDir:      cfg.UploadDir,
		AllowedOrigins: cfg.CORSOrigins,
		Logger:         log,
	})

	log.Info("🚀 Attractions dev API starting", zap.String("addr", cfg.Addr))
	log.Info("📦 Database", zap.String("path", cfg.DBPath), zap.String("uploads", cfg.UploadDir))

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := httpSrv.ListenAndServe(); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
}
