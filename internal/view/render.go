// Package view turns attraction records into a view-model that templates or
// JSON callers can display without knowing about the API types.
package view

import (
	"strconv"
	"time"

	"github.com/meur/attractions-admin/internal/models"
)

// Placeholder messages shown in place of the card list.
const (
	EmptyMessage   = "No attractions yet"
	LoadingMessage = "Loading..."
	NoCoordinates  = "Coordinates not set"
)

// Badge labels
const (
	BadgeRecommended = "Recommended"
	BadgeNormal      = "Normal"
)

// Card is the display form of one attraction.
type Card struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Rating      string `json:"rating"`
	Distance    string `json:"distance,omitempty"`
	Badge       string `json:"badge"`
	Recommended bool   `json:"recommended"`
	Description string `json:"description,omitempty"`
	CoverImage  string `json:"cover_image,omitempty"`
	Coordinates string `json:"coordinates"`
	HasCoords   bool   `json:"has_coordinates"`
	SortWeight  string `json:"sort_weight"`
	CreatedOn   string `json:"created_on"`
}

// List is the rendered card list, or a placeholder when there is nothing to show.
type List struct {
	Cards       []Card `json:"cards"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Empty reports whether the list renders a placeholder instead of cards.
func (l List) Empty() bool {
	return len(l.Cards) == 0
}

// Options controls locale-dependent formatting.
type Options struct {
	Locale   Locale
	Location *time.Location
}

// Render maps records to cards. It has no side effects.
func Render(list []models.Attraction, opts Options) List {
	if len(list) == 0 {
		return List{Cards: []Card{}, Placeholder: EmptyMessage}
	}

	cards := make([]Card, 0, len(list))
	for i := range list {
		cards = append(cards, renderCard(&list[i], opts))
	}
	return List{Cards: cards}
}

func renderCard(a *models.Attraction, opts Options) Card {
	c := Card{
		ID:          a.ID,
		Name:        a.Name,
		Category:    a.Category,
		Rating:      formatFloat(a.Rating),
		Recommended: a.IsRecommended,
		Badge:       BadgeNormal,
		Coordinates: NoCoordinates,
		SortWeight:  opts.Locale.Integer(a.SortOrder),
	}
	if a.IsRecommended {
		c.Badge = BadgeRecommended
	}
	if a.Distance != nil {
		c.Distance = *a.Distance
	}
	if a.Description != nil {
		c.Description = *a.Description
	}
	if a.CoverImage != nil {
		c.CoverImage = *a.CoverImage
	}
	if a.HasCoordinates() {
		c.HasCoords = true
		c.Coordinates = formatFloat(*a.Latitude) + ", " + formatFloat(*a.Longitude)
	}

	created := a.CreatedAt
	if opts.Location != nil && !created.IsZero() {
		created = created.In(opts.Location)
	}
	c.CreatedOn = opts.Locale.Date(created)

	return c
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
