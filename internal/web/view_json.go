package web

import (
	"net/http"
	"time"

	"github.com/meur/attractions-admin/internal/panel"
	"github.com/meur/attractions-admin/internal/view"
)

type noticeJSON struct {
	Kind    string     `json:"kind"`
	Message string     `json:"message"`
	Expires *time.Time `json:"expires,omitempty"`
}

type modalJSON struct {
	Open   bool   `json:"open"`
	Title  string `json:"title,omitempty"`
	EditID *int64 `json:"edit_id"`
}

type previewJSON struct {
	State      string `json:"state"`
	Src        string `json:"src,omitempty"`
	ServerPath string `json:"server_path,omitempty"`
}

type panelJSON struct {
	Status     string       `json:"status"`
	Locale     string       `json:"locale"`
	Cards      []view.Card  `json:"cards"`
	Message    string       `json:"message,omitempty"`
	Total      int          `json:"total"`
	Categories []string     `json:"categories"`
	Filter     filterJSON   `json:"filter"`
	Keyword    string       `json:"keyword,omitempty"`
	Modal      modalJSON    `json:"modal"`
	Preview    previewJSON  `json:"preview"`
	Dragging   bool         `json:"dragging"`
	Notices    []noticeJSON `json:"notices"`
}

type filterJSON struct {
	Category        string `json:"category,omitempty"`
	RecommendedOnly bool   `json:"recommended_only"`
}

var previewStates = map[panel.PreviewState]string{
	panel.PreviewNone:      "none",
	panel.PreviewPending:   "pending",
	panel.PreviewConfirmed: "confirmed",
	panel.PreviewFailed:    "failed",
}

// handleViewJSON returns the session's panel state as JSON.
func (s *Server) handleViewJSON(w http.ResponseWriter, r *http.Request) {
	p := s.panelFor(w, r)
	opts := viewOptions(r)
	st := p.View(opts)

	out := panelJSON{
		Status:     st.Status.String(),
		Locale:     opts.Locale.Tag.String(),
		Cards:      st.List.Cards,
		Message:    st.List.Placeholder,
		Total:      st.Total,
		Categories: st.Categories,
		Filter:     filterJSON{Category: st.Filter.Category, RecommendedOnly: st.Filter.RecommendedOnly},
		Keyword:    st.Keyword,
		Modal:      modalJSON{Open: st.Modal.Open()},
		Preview: previewJSON{
			State:      previewStates[st.Preview.State],
			Src:        st.Preview.Src(),
			ServerPath: st.Preview.ServerPath,
		},
		Dragging: st.Dragging,
		Notices:  make([]noticeJSON, 0, len(st.Notices)),
	}
	if out.Categories == nil {
		out.Categories = []string{}
	}
	if out.Modal.Open {
		out.Modal.Title = st.Modal.Title()
	}
	if id, ok := st.Modal.EditID(); ok {
		out.Modal.EditID = &id
	}
	for _, n := range st.Notices {
		nj := noticeJSON{Kind: string(n.Kind), Message: n.Message}
		if !n.Expires.IsZero() {
			exp := n.Expires
			nj.Expires = &exp
		}
		out.Notices = append(out.Notices, nj)
	}

	respondJSON(w, http.StatusOK, out)
}
