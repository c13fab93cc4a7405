package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meur/attractions-admin/internal/panel"
)

// SessionCookie names the cookie that binds a browser to its panel.
const SessionCookie = "panel_session"

const defaultSessionTTL = 12 * time.Hour

type session struct {
	panel    *panel.Panel
	lastSeen time.Time
}

// Sessions keeps one panel per browser session in memory. Sessions idle
// longer than the TTL are dropped.
type Sessions struct {
	newPanel func() *panel.Panel
	ttl      time.Duration
	now      func() time.Time

	mu     sync.Mutex
	panels map[string]*session
}

// NewSessions creates a registry that builds panels with newPanel.
func NewSessions(newPanel func() *panel.Panel, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Sessions{
		newPanel: newPanel,
		ttl:      ttl,
		now:      time.Now,
		panels:   make(map[string]*session),
	}
}

// Get returns the panel for the request's session, starting a new session
// and setting the cookie when there is none. created is true for new panels.
func (s *Sessions) Get(w http.ResponseWriter, r *http.Request) (p *panel.Panel, created bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evict(now)

	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			if sess, ok := s.panels[c.Value]; ok {
				sess.lastSeen = now
				return sess.panel, false
			}
		}
	}

	id := uuid.NewString()
	sess := &session{panel: s.newPanel(), lastSeen: now}
	s.panels[id] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess.panel, true
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.panels)
}

func (s *Sessions) evict(now time.Time) {
	for id, sess := range s.panels {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.panels, id)
		}
	}
}
