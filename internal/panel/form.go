package panel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/meur/attractions-admin/internal/models"
)

// Form defaults for a new record
const (
	DefaultRating   = "4.5"
	DefaultCategory = "attraction"
)

// ValidationError is a form value that cannot be sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// IsValidation reports whether err is a local form validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Form holds raw field values as a browser posts them.
type Form struct {
	Name          string
	Category      string
	Description   string
	Latitude      string
	Longitude     string
	Rating        string
	Distance      string
	SortOrder     string
	IsRecommended bool
	CoverImage    string
}

// EmptyForm is the reset state of the create dialog.
func EmptyForm() Form {
	return Form{
		Category:      DefaultCategory,
		Rating:        DefaultRating,
		SortOrder:     "0",
		IsRecommended: true,
	}
}

// FormFromAttraction fills every field from a; absent optionals become "".
func FormFromAttraction(a *models.Attraction) Form {
	return Form{
		Name:          a.Name,
		Category:      a.Category,
		Description:   derefString(a.Description),
		Latitude:      derefFloat(a.Latitude),
		Longitude:     derefFloat(a.Longitude),
		Rating:        strconv.FormatFloat(a.Rating, 'f', -1, 64),
		Distance:      derefString(a.Distance),
		SortOrder:     strconv.Itoa(a.SortOrder),
		IsRecommended: a.IsRecommended,
		CoverImage:    derefString(a.CoverImage),
	}
}

// Input converts the form into a request payload. Empty optional fields
// become nil rather than zero values.
func (f Form) Input() (models.AttractionInput, error) {
	in := models.AttractionInput{
		Name:          strings.TrimSpace(f.Name),
		Category:      strings.TrimSpace(f.Category),
		Description:   optionalString(f.Description),
		Distance:      optionalString(f.Distance),
		CoverImage:    optionalString(f.CoverImage),
		IsRecommended: f.IsRecommended,
	}
	if in.Name == "" {
		return in, &ValidationError{Field: "name", Reason: "is required"}
	}

	var err error
	if in.Latitude, err = optionalFloat("latitude", f.Latitude); err != nil {
		return in, err
	}
	if in.Longitude, err = optionalFloat("longitude", f.Longitude); err != nil {
		return in, err
	}

	rating := strings.TrimSpace(f.Rating)
	if rating == "" {
		return in, &ValidationError{Field: "rating", Reason: "is required"}
	}
	if in.Rating, err = strconv.ParseFloat(rating, 64); err != nil {
		return in, &ValidationError{Field: "rating", Reason: fmt.Sprintf("%q is not a number", rating)}
	}

	if s := strings.TrimSpace(f.SortOrder); s != "" {
		if in.SortOrder, err = strconv.Atoi(s); err != nil {
			return in, &ValidationError{Field: "sort_order", Reason: fmt.Sprintf("%q is not an integer", s)}
		}
	}

	return in, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalFloat(field, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a number", s)}
	}
	return &v, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
