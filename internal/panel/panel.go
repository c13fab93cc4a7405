// Package panel holds the state and operations of the attractions admin panel.
//
// A Panel keeps a snapshot of the last successful list fetch, the modal and
// form state, the image preview, and the notices shown to the user. Network
// calls go through the API interface and are made without holding the state
// lock, so one Panel can serve concurrent requests.
package panel

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/meur/attractions-admin/internal/models"
	"github.com/meur/attractions-admin/internal/view"
)

// ListPageSize is how many records one refresh fetches.
const ListPageSize = 100

// SuccessNoticeTTL is how long a success notice stays visible.
const SuccessNoticeTTL = 3 * time.Second

var (
	ErrNotFound       = errors.New("attraction not found in snapshot")
	ErrSubmitInFlight = errors.New("a save is already in progress")
	ErrNotImage       = errors.New("dropped file is not an image")
	ErrNoFile         = errors.New("no file")
)

// API is the subset of the attractions backend the panel needs.
type API interface {
	List(ctx context.Context, pageSize int) ([]models.Attraction, error)
	Create(ctx context.Context, in models.AttractionInput) (*models.Attraction, error)
	Update(ctx context.Context, id int64, in models.AttractionInput) (*models.Attraction, error)
	Delete(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// ListStatus describes what the list area currently shows.
type ListStatus int

const (
	ListIdle ListStatus = iota
	ListLoading
	ListReady
	ListError
)

func (s ListStatus) String() string {
	switch s {
	case ListLoading:
		return "loading"
	case ListReady:
		return "ready"
	case ListError:
		return "error"
	default:
		return "idle"
	}
}

// Panel is one admin panel instance.
type Panel struct {
	api API
	log *zap.Logger
	now func() time.Time

	refreshGroup singleflight.Group

	mu         sync.Mutex
	snapshot   []models.Attraction
	visible    []models.Attraction
	status     ListStatus
	listErr    string
	refreshSeq uint64
	appliedSeq uint64
	inflight   int

	filter  Filter
	keyword string

	modal      Modal
	form       Form
	submitting bool

	preview  Preview
	uploadID uint64
	dragging bool

	notices notices
}

// Option configures a Panel.
type Option func(*Panel)

// WithLogger sets the logger used for failed operations.
func WithLogger(log *zap.Logger) Option {
	return func(p *Panel) {
		if log != nil {
			p.log = log
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Panel) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a closed, empty panel backed by api.
func New(api API, opts ...Option) *Panel {
	p := &Panel{
		api:  api,
		log:  zap.NewNop(),
		now:  time.Now,
		form: EmptyForm(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Snapshot returns a copy of the cached records.
func (p *Panel) Snapshot() []models.Attraction {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneList(p.snapshot)
}

// Visible returns a copy of the records currently rendered.
func (p *Panel) Visible() []models.Attraction {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneList(p.visible)
}

// CurrentEditID returns the id being edited, if any.
func (p *Panel) CurrentEditID() (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.modal.EditID()
}

// Modal returns the modal state.
func (p *Panel) Modal() Modal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.modal
}

// Form returns the form as last populated or posted.
func (p *Panel) Form() Form {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}

// SetForm stores field values typed by the user without submitting them.
func (p *Panel) SetForm(f Form) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = f
}

// Preview returns the cover image preview state.
func (p *Panel) Preview() Preview {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.preview
}

// Notices returns the notices visible at the current time.
func (p *Panel) Notices() []Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notices.active(p.now())
}

// State is everything a page needs to draw the panel.
type State struct {
	Status     ListStatus
	List       view.List
	ListError  string
	Filter     Filter
	Keyword    string
	Categories []string
	Modal      Modal
	Form       Form
	Preview    Preview
	Dragging   bool
	Notices    []Notice
	Total      int
}

// View renders the panel state with opts.
func (p *Panel) View(opts view.Options) State {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := State{
		Status:     p.status,
		ListError:  p.listErr,
		Filter:     p.filter,
		Keyword:    p.keyword,
		Categories: categories(p.snapshot),
		Modal:      p.modal,
		Form:       p.form,
		Preview:    p.preview,
		Dragging:   p.dragging,
		Notices:    p.notices.active(p.now()),
		Total:      len(p.snapshot),
	}

	switch p.status {
	case ListLoading:
		st.List = view.List{Cards: []view.Card{}, Placeholder: view.LoadingMessage}
	case ListError:
		st.List = view.List{Cards: []view.Card{}, Placeholder: p.listErr}
	default:
		st.List = view.Render(p.visible, opts)
	}
	return st
}

func categories(list []models.Attraction) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range list {
		if a.Category == "" {
			continue
		}
		if _, ok := seen[a.Category]; ok {
			continue
		}
		seen[a.Category] = struct{}{}
		out = append(out, a.Category)
	}
	sort.Strings(out)
	return out
}

func cloneList(list []models.Attraction) []models.Attraction {
	if list == nil {
		return nil
	}
	out := make([]models.Attraction, len(list))
	copy(out, list)
	return out
}

func (p *Panel) find(id int64) (models.Attraction, bool) {
	for _, a := range p.snapshot {
		if a.ID == id {
			return a, true
		}
	}
	return models.Attraction{}, false
}
