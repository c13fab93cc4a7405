// Package web serves the attractions admin panel to browsers. Each browser
// session gets its own panel; pages are rendered server side from the panel
// state and every interaction posts back and redirects to the list.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/meur/attractions-admin/internal/middleware"
	"github.com/meur/attractions-admin/internal/panel"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Config holds the panel server settings
type Config struct {
	// AssetBaseURL prefixes image paths returned by the API, usually the API base URL.
	AssetBaseURL   string
	AllowedOrigins []string
	SessionTTL     time.Duration
	Logger         *zap.Logger
}

// Server holds the HTTP server dependencies
type Server struct {
	sessions  *Sessions
	assetBase string
	origins   []string
	log       *zap.Logger
	pages     *template.Template
	router    chi.Router
}

// New creates the panel server. Panels talk to api.
func New(api panel.API, cfg Config) (*Server, error) {
	s := &Server{
		assetBase: strings.TrimRight(cfg.AssetBaseURL, "/"),
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

	pages, err := template.New("").Funcs(template.FuncMap{
		"asset":  s.assetURL,
		"notice": noticeClass,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.pages = pages

	log := s.log
	s.sessions = NewSessions(func() *panel.Panel {
		return panel.New(api, panel.WithLogger(log))
	}, cfg.SessionTTL)

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the session registry.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RequestLogger(s.log))
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Post("/refresh", s.handleRefresh)

	s.router.Get("/attractions/new", s.handleOpenCreate)
	s.router.Post("/attractions", s.handleSubmit)
	s.router.Get("/attractions/{id}/edit", s.handleOpenEdit)
	s.router.Get("/attractions/{id}/delete", s.handleConfirmDelete)
	s.router.Post("/attractions/{id}/delete", s.handleDelete)
	s.router.Post("/modal/close", s.handleCloseModal)

	s.router.Post("/upload", s.handleUpload)
	s.router.Post("/dragover", s.handleDragOver)
	s.router.Post("/dragleave", s.handleDragLeave)

	s.router.Get("/export", s.handleExport)

	// JSON view for scripts and browser-side callers
	s.router.Route("/api/panel", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.origins,
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Get("/view", s.handleViewJSON)
	})

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	FileServer(s.router, "/static", http.FS(static))

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}

// assetURL resolves an image source. Data URLs from local previews pass
// through; server paths are joined to the API host.
func (s *Server) assetURL(src string) template.URL {
	switch {
	case src == "":
		return ""
	case strings.HasPrefix(src, "data:image/"):
		return template.URL(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return template.URL(src)
	case strings.HasPrefix(src, "/"):
		return template.URL(s.assetBase + src)
	default:
		return template.URL(s.assetBase + "/" + src)
	}
}

func noticeClass(n panel.Notice) string {
	return "notice notice-" + string(n.Kind)
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
