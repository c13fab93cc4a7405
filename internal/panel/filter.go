package panel

import (
	"strings"

	"github.com/meur/attractions-admin/internal/models"
)

// Filter narrows the snapshot. A zero Filter matches everything.
type Filter struct {
	Category        string
	RecommendedOnly bool
}

// Apply returns the records matching f. list is not modified.
func Apply(list []models.Attraction, f Filter) []models.Attraction {
	out := make([]models.Attraction, 0, len(list))
	for _, a := range list {
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if f.RecommendedOnly && !a.IsRecommended {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Search returns the records whose name, description or category contains
// keyword, ignoring case. An empty keyword falls back to Apply(list, f).
func Search(list []models.Attraction, keyword string, f Filter) []models.Attraction {
	if keyword == "" {
		return Apply(list, f)
	}

	k := strings.ToLower(keyword)
	out := make([]models.Attraction, 0)
	for _, a := range list {
		if matches(&a, k) {
			out = append(out, a)
		}
	}
	return out
}

func matches(a *models.Attraction, lowerKeyword string) bool {
	if strings.Contains(strings.ToLower(a.Name), lowerKeyword) {
		return true
	}
	if a.Description != nil && strings.Contains(strings.ToLower(*a.Description), lowerKeyword) {
		return true
	}
	return strings.Contains(strings.ToLower(a.Category), lowerKeyword)
}

// Filter re-renders the snapshot narrowed by f and clears any search term.
func (p *Panel) Filter(f Filter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.filter = f
	p.keyword = ""
	p.notices.clearError()
	p.visible = Apply(p.snapshot, f)
}

// Search re-renders the snapshot narrowed by keyword. An empty keyword
// re-applies the current filter.
func (p *Panel) Search(keyword string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.keyword = keyword
	p.notices.clearError()
	p.visible = Search(p.snapshot, keyword, p.filter)
}
