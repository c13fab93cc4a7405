// Command import restores an exported attractions file through the API.
// Each record is created anew; ids and timestamps in the file are ignored.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/meur/attractions-admin/internal/client"
	"github.com/meur/attractions-admin/internal/config"
	"github.com/meur/attractions-admin/internal/logger"
	"github.com/meur/attractions-admin/internal/models"
)

func main() {
	zl, _ := logger.New("info")
	log := zl.Sugar()
	defer log.Sync()

	if err := config.LoadDotEnv(); err != nil {
		log.Warnw("load .env", zap.Error(err))
	}
	cfg, err := config.LoadPanel()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	apiURL := flag.String("api", cfg.APIBaseURL, "Attractions API base URL")
	path := flag.String("file", "", "Exported attractions JSON file")
	skipExisting := flag.Bool("skip-existing", true, "Skip records whose name already exists")
	flag.Parse()

	if *path == "" {
		log.Fatal("-file is required")
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("Failed to read export: %v", err)
	}
	var records []models.Attraction
	if err := json.Unmarshal(data, &records); err != nil {
		log.Fatalf("Failed to parse export: %v", err)
	}

	api, err := client.New(*apiURL, client.WithTimeout(cfg.APITimeout))
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	existing := make(map[string]bool)
	if *skipExisting {
		current, err := api.List(ctx, client.MaxPageSize)
		if err != nil {
			log.Fatalf("Failed to list attractions: %v", client.Detail(err, err.Error()))
		}
		for _, a := range current {
			existing[a.Name] = true
		}
	}

	created, skipped, failed := 0, 0, 0
	for i := range records {
		a := &records[i]
		if existing[a.Name] {
			skipped++
			continue
		}
		if _, err := api.Create(ctx, a.Input()); err != nil {
			log.Warnw("create failed", "name", a.Name, "detail", client.Detail(err, err.Error()))
			failed++
			continue
		}
		existing[a.Name] = true
		created++
	}

	log.Infow("✓ Import finished", "created", created, "skipped", skipped, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}
