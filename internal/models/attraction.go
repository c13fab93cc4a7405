package models

import (
	"time"
)

// Attraction represents a point of interest managed by the admin panel.
// Optional values are pointers; nil encodes as JSON null.
type Attraction struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   *string   `json:"description"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	Rating        float64   `json:"rating"`
	Distance      *string   `json:"distance"`
	SortOrder     int       `json:"sort_order"`
	IsRecommended bool      `json:"is_recommended"`
	CoverImage    *string   `json:"cover_image"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (a *Attraction) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// AttractionInput is the request body for creating or replacing an attraction.
// Pointer fields are sent as null when absent, never as zero values.
type AttractionInput struct {
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Description   *string  `json:"description"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Rating        float64  `json:"rating"`
	Distance      *string  `json:"distance"`
	SortOrder     int      `json:"sort_order"`
	IsRecommended bool     `json:"is_recommended"`
	CoverImage    *string  `json:"cover_image"`
}

// Input returns the writable fields of an attraction.
func (a *Attraction) Input() AttractionInput {
	return AttractionInput{
		Name:          a.Name,
		Category:      a.Category,
		Description:   a.Description,
		Latitude:      a.Latitude,
		Longitude:     a.Longitude,
		Rating:        a.Rating,
		Distance:      a.Distance,
		SortOrder:     a.SortOrder,
		IsRecommended: a.IsRecommended,
		CoverImage:    a.CoverImage,
	}
}

// AttractionList is a page of attractions
type AttractionList struct {
	Items    []Attraction `json:"items"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// UploadResult is returned by the image upload endpoint
type UploadResult struct {
	Success  bool   `json:"success"`
	FilePath string `json:"file_path"`
	Message  string `json:"message,omitempty"`
}

// ErrorBody is the error envelope used by the attractions API
type ErrorBody struct {
	Detail string `json:"detail"`
}
