package view

import (
	"testing"
	"time"

	"github.com/meur/attractions-admin/internal/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestRenderEmptyListShowsPlaceholder(t *testing.T) {
	got := Render(nil, Options{Locale: DefaultLocale()})
	if !got.Empty() {
		t.Fatalf("expected empty list, got %d cards", len(got.Cards))
	}
	if got.Placeholder != EmptyMessage {
		t.Fatalf("placeholder = %q, want %q", got.Placeholder, EmptyMessage)
	}
}

func TestRenderCardFields(t *testing.T) {
	created := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	list := []models.Attraction{
		{
			ID:            1,
			Name:          "Lake",
			Category:      "nature",
			Rating:        4.5,
			Distance:      strPtr("3km"),
			IsRecommended: true,
			Description:   strPtr("calm water"),
			CoverImage:    strPtr("/static/attractions/a.png"),
			Latitude:      floatPtr(30.25),
			Longitude:     floatPtr(120.125),
			SortOrder:     1500,
			CreatedAt:     created,
		},
		{
			ID:        2,
			Name:      "Museum",
			Category:  "culture",
			Rating:    4,
			Latitude:  floatPtr(30.25),
			CreatedAt: created,
		},
	}

	got := Render(list, Options{Locale: DefaultLocale()})
	if got.Empty() || len(got.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %+v", got)
	}

	lake := got.Cards[0]
	if lake.Badge != BadgeRecommended || !lake.Recommended {
		t.Errorf("lake badge = %q", lake.Badge)
	}
	if lake.Distance != "3km" || lake.Description != "calm water" || lake.CoverImage != "/static/attractions/a.png" {
		t.Errorf("lake optional fields = %+v", lake)
	}
	if lake.Coordinates != "30.25, 120.125" || !lake.HasCoords {
		t.Errorf("lake coordinates = %q", lake.Coordinates)
	}
	if lake.Rating != "4.5" {
		t.Errorf("lake rating = %q", lake.Rating)
	}
	if lake.SortWeight != "1,500" {
		t.Errorf("lake sort weight = %q", lake.SortWeight)
	}
	if lake.CreatedOn != "3/9/2024" {
		t.Errorf("lake created = %q", lake.CreatedOn)
	}

	museum := got.Cards[1]
	if museum.Badge != BadgeNormal {
		t.Errorf("museum badge = %q", museum.Badge)
	}
	if museum.Coordinates != NoCoordinates || museum.HasCoords {
		t.Errorf("museum with one coordinate should show %q, got %q", NoCoordinates, museum.Coordinates)
	}
	if museum.Distance != "" || museum.Description != "" || museum.CoverImage != "" {
		t.Errorf("museum optional fields should be empty: %+v", museum)
	}
}

func TestMatchLocale(t *testing.T) {
	tests := []struct {
		header string
		layout string
	}{
		{header: "", layout: "1/2/2006"},
		{header: "de-DE,de;q=0.9", layout: "2.1.2006"},
		{header: "en-GB", layout: "02/01/2006"},
		{header: "zh-CN,zh;q=0.9,en;q=0.8", layout: "2006/1/2"},
		{header: "not a header;;;", layout: "1/2/2006"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := MatchLocale(tt.header).DateLayout; got != tt.layout {
				t.Errorf("layout = %q, want %q", got, tt.layout)
			}
		})
	}
}
