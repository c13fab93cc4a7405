package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/meur/attractions-admin/internal/models"
	"github.com/meur/attractions-admin/internal/storage"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	defaultRating   = 4.5
	defaultCategory = "attraction"
)

const notFoundDetail = "Attraction not found"

// attractionRequest is the create/update body. Pointers tell absent fields
// apart so create can apply defaults.
type attractionRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	CoverImage    *string  `json:"cover_image"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Rating        *float64 `json:"rating"`
	Distance      *string  `json:"distance"`
	Category      *string  `json:"category"`
	IsRecommended *bool    `json:"is_recommended"`
	SortOrder     *int     `json:"sort_order"`
}

func (req *attractionRequest) validate(create bool) error {
	if create && (req.Name == nil || *req.Name == "") {
		return errors.New("name is required")
	}
	if req.Name != nil && (*req.Name == "" || utf8.RuneCountInString(*req.Name) > 100) {
		return errors.New("name must be 1-100 characters")
	}
	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		return errors.New("latitude must be between -90 and 90")
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		return errors.New("longitude must be between -180 and 180")
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		return errors.New("rating must be between 0 and 5")
	}
	if req.Distance != nil && utf8.RuneCountInString(*req.Distance) > 20 {
		return errors.New("distance must be at most 20 characters")
	}
	if req.Category != nil && utf8.RuneCountInString(*req.Category) > 50 {
		return errors.New("category must be at most 50 characters")
	}
	return nil
}

func (req *attractionRequest) input() models.AttractionInput {
	in := models.AttractionInput{
		Description:   req.Description,
		CoverImage:    req.CoverImage,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Rating:        defaultRating,
		Distance:      req.Distance,
		Category:      defaultCategory,
		IsRecommended: true,
	}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Rating != nil {
		in.Rating = *req.Rating
	}
	if req.Category != nil {
		in.Category = *req.Category
	}
	if req.IsRecommended != nil {
		in.IsRecommended = *req.IsRecommended
	}
	if req.SortOrder != nil {
		in.SortOrder = *req.SortOrder
	}
	return in
}

// handleListAttractions returns a page of attractions
func (s *Server) handleListAttractions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(q.Get("page"), 1, 1, 0)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "page: "+err.Error())
		return
	}
	pageSize, err := intParam(q.Get("page_size"), defaultPageSize, 1, maxPageSize)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "page_size: "+err.Error())
		return
	}

	lq := storage.ListQuery{
		Page:     page,
		PageSize: pageSize,
		Category: q.Get("category"),
		Keyword:  q.Get("keyword"),
	}
	if v := q.Get("is_recommended"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "is_recommended must be a boolean")
			return
		}
		lq.IsRecommended = &b
	}

	items, total, err := s.store.ListAttractions(lq)
	if err != nil {
		s.log.Error("list attractions", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch attractions")
		return
	}

	respondJSON(w, http.StatusOK, models.AttractionList{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// handleGetAttraction returns a single attraction by ID
func (s *Server) handleGetAttraction(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	a, err := s.store.GetAttraction(id)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, notFoundDetail)
		return
	}
	if err != nil {
		s.log.Error("get attraction", zap.Int64("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch attraction")
		return
	}

	respondJSON(w, http.StatusOK, a)
}

// handleCreateAttraction creates a new attraction
func (s *Server) handleCreateAttraction(w http.ResponseWriter, r *http.Request) {
	var req attractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.validate(true); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	in := req.input()
	a, err := s.store.CreateAttraction(&in)
	if err != nil {
		s.log.Error("create attraction", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create attraction")
		return
	}

	respondJSON(w, http.StatusOK, a)
}

// handleUpdateAttraction updates the fields present in the body; an explicit
// null clears a field
func (s *Server) handleUpdateAttraction(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	var req attractionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := req.validate(false); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	fields, err := updateFields(raw, &req)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	a, err := s.store.UpdateAttraction(id, fields)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, notFoundDetail)
		return
	}
	if err != nil {
		s.log.Error("update attraction", zap.Int64("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update attraction")
		return
	}

	respondJSON(w, http.StatusOK, a)
}

// updateFields maps the keys present in raw to column values. Unknown keys are ignored.
func updateFields(raw map[string]json.RawMessage, req *attractionRequest) (map[string]interface{}, error) {
	values := map[string]interface{}{
		"name":           req.Name,
		"description":    req.Description,
		"cover_image":    req.CoverImage,
		"latitude":       req.Latitude,
		"longitude":      req.Longitude,
		"rating":         req.Rating,
		"distance":       req.Distance,
		"category":       req.Category,
		"is_recommended": req.IsRecommended,
		"sort_order":     req.SortOrder,
	}
	notNull := map[string]bool{
		"name": true, "rating": true, "category": true, "is_recommended": true, "sort_order": true,
	}

	fields := make(map[string]interface{})
	for key := range raw {
		v, ok := values[key]
		if !ok {
			continue
		}
		if string(raw[key]) == "null" {
			if notNull[key] {
				return nil, fmt.Errorf("%s cannot be null", key)
			}
			fields[key] = nil
			continue
		}
		fields[key] = v
	}
	return fields, nil
}

// handleDeleteAttraction deletes an attraction by ID
func (s *Server) handleDeleteAttraction(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	err := s.store.DeleteAttraction(id)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, notFoundDetail)
		return
	}
	if err != nil {
		s.log.Error("delete attraction", zap.Int64("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete attraction")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "id must be an integer")
		return 0, false
	}
	return id, true
}

// intParam parses v, falling back to def when empty. hi 0 means unbounded.
func intParam(v string, def, lo, hi int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", v)
	}
	if n < lo || (hi > 0 && n > hi) {
		if hi > 0 {
			return 0, fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return 0, fmt.Errorf("must be at least %d", lo)
	}
	return n, nil
}
