package main

import (
	"encoding/json"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/meur/attractions-admin/internal/logger"
	"github.com/meur/attractions-admin/internal/models"
	"github.com/meur/attractions-admin/internal/storage"
)

func main() {
	dbPath := flag.String("db", "./attractions.db", "SQLite database path")
	seedPath := flag.String("seed", "./seeds/attractions.json", "JSON array of attractions")
	flag.Parse()

	zl, _ := logger.New("info")
	log := zl.Sugar()
	defer log.Sync()

	store, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	items, err := readSeed(*seedPath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *seedPath, err)
	}

	if err := store.BulkCreateAttractions(items); err != nil {
		log.Fatalf("Failed to seed attractions: %v", err)
	}

	log.Infow("🌱 Seeding complete!", zap.Int("attractions", len(items)), zap.String("db", *dbPath))
}

// readSeed decodes a JSON array of attractions. Records may omit fields;
// the dev API's create defaults apply.
func readSeed(path string) ([]models.AttractionInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		models.AttractionInput
		Rating        *float64 `json:"rating"`
		IsRecommended *bool    `json:"is_recommended"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	items := make([]models.AttractionInput, 0, len(raw))
	for _, r := range raw {
		in := r.AttractionInput
		in.Rating = 4.5
		if r.Rating != nil {
			in.Rating = *r.Rating
		}
		in.IsRecommended = true
		if r.IsRecommended != nil {
			in.IsRecommended = *r.IsRecommended
		}
		if in.Category == "" {
			in.Category = "attraction"
		}
		items = append(items, in)
	}
	return items, nil
}
