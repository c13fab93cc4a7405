// Command attach_images uploads local images and sets each as the cover of
// the attraction with the same name as the file (without extension).
package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
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
	dir := flag.String("dir", "data/covers", "Directory of cover images")
	overwrite := flag.Bool("overwrite", false, "Replace covers that are already set")
	flag.Parse()

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *dir, err)
	}

	api, err := client.New(*apiURL, client.WithTimeout(cfg.APITimeout))
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	records, err := api.List(ctx, client.MaxPageSize)
	if err != nil {
		log.Fatalf("Failed to list attractions: %v", client.Detail(err, err.Error()))
	}
	byName := make(map[string]models.Attraction, len(records))
	for _, a := range records {
		byName[strings.ToLower(a.Name)] = a
	}

	fmt.Printf("Loaded %d attractions\n", len(records))

	updated, notFound := 0, 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		contentType := mime.TypeByExtension(strings.ToLower(ext))
		if !strings.HasPrefix(contentType, "image/") {
			continue
		}

		name := strings.TrimSuffix(e.Name(), ext)
		a, ok := byName[strings.ToLower(name)]
		if !ok {
			notFound++
			continue
		}
		if a.CoverImage != nil && *a.CoverImage != "" && !*overwrite {
			continue
		}

		if err := attach(ctx, api, &a, filepath.Join(*dir, e.Name()), contentType); err != nil {
			log.Warnw("attach failed", "name", a.Name, "detail", client.Detail(err, err.Error()))
			continue
		}
		updated++
	}

	fmt.Printf("Updated: %d attractions\n", updated)
	fmt.Printf("Not found: %d images\n", notFound)
}

func attach(ctx context.Context, api *client.Client, a *models.Attraction, path, contentType string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	serverPath, err := api.UploadImage(ctx, filepath.Base(path), contentType, f)
	if err != nil {
		return err
	}

	in := a.Input()
	in.CoverImage = &serverPath
	_, err = api.Update(ctx, a.ID, in)
	return err
}
