package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meur/attractions-admin/internal/models"
	"github.com/meur/attractions-admin/internal/storage"
)

const maxUploadSize = 10 << 20

var errNotImage = errors.New("Please upload an image file")

// handleUploadImage stores an image and returns the path it is served from
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	path, ok := s.receiveImage(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, models.UploadResult{
		Success:  true,
		FilePath: path,
		Message:  "Image uploaded",
	})
}

// handleUploadCover stores an image and sets it as the attraction's cover
func (s *Server) handleUploadCover(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if _, err := s.store.GetAttraction(id); errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, notFoundDetail)
		return
	} else if err != nil {
		s.log.Error("get attraction", zap.Int64("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch attraction")
		return
	}

	path, ok := s.receiveImage(w, r)
	if !ok {
		return
	}

	a, err := s.store.UpdateAttraction(id, map[string]interface{}{"cover_image": path})
	if err != nil {
		s.log.Error("set cover image", zap.Int64("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update attraction")
		return
	}

	respondJSON(w, http.StatusOK, a)
}

// receiveImage saves the multipart "file" part and writes an error response on failure.
func (s *Server) receiveImage(w http.ResponseWriter, r *http.Request) (string, bool) {
	if s.uploadDir == "" {
		respondError(w, http.StatusServiceUnavailable, "Uploads are disabled")
		return "", false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing file")
		return "", false
	}
	defer file.Close()

	name, err := s.saveImage(file, header)
	if errors.Is(err, errNotImage) {
		respondError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	if err != nil {
		s.log.Error("save upload", zap.String("filename", header.Filename), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to save image")
		return "", false
	}

	s.log.Info("image uploaded", zap.String("file", name), zap.Int64("size", header.Size))
	return StaticPrefix + name, true
}

func (s *Server) saveImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return "", errNotImage
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	out, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		return "", err
	}
	return name, out.Close()
}
