// Package api is a local stand-in for the attractions backend. It serves the
// same REST surface the admin panel consumes, backed by sqlite, so the panel
// can be developed and tested without the production service.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/meur/attractions-admin/internal/middleware"
	"github.com/meur/attractions-admin/internal/storage"
)

// StaticPrefix is where uploaded images are served from.
const StaticPrefix = "/static/attractions/"

// Config holds the server settings
type Config struct {
	UploadDir      string
	AllowedOrigins []string
	Logger         *zap.Logger
}

// Server holds the HTTP server dependencies
type Server struct {
	store     *storage.Store
	uploadDir string
	origins   []string
	log       *zap.Logger
	router    chi.Router
}

// New creates a new API server
func New(store *storage.Store, cfg Config) *Server {
	s := &Server{
		store:     store,
		uploadDir: cfg.UploadDir,
		origins:   cfg.AllowedOrigins,
		log:       cfg.Logger,
		router:    chi.NewRouter(),
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if len(s.origins) == 0 {
		s.origins = []string{"http://localhost:*"}
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RequestLogger(s.log))
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/attractions", s.handleListAttractions)
		r.Post("/attractions", s.handleCreateAttraction)
		// registered before /{id} so chi matches the static segment
		r.Post("/attractions/upload-image", s.handleUploadImage)
		r.Get("/attractions/{id}", s.handleGetAttraction)
		r.Put("/attractions/{id}", s.handleUpdateAttraction)
		r.Delete("/attractions/{id}", s.handleDeleteAttraction)
		r.Post("/attractions/{id}/upload-cover", s.handleUploadCover)
	})

	if s.uploadDir != "" {
		fs := http.StripPrefix(strings.TrimSuffix(StaticPrefix, "/"), http.FileServer(http.Dir(s.uploadDir)))
		s.router.Get(StaticPrefix+"*", fs.ServeHTTP)
	}

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
