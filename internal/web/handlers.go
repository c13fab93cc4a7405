package web

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/meur/attractions-admin/internal/panel"
	"github.com/meur/attractions-admin/internal/view"
)

const maxUploadMemory = 10 << 20

// pageData is what the templates receive
type pageData struct {
	panel.State
	Locale string
	// set on the delete confirmation page
	Prompt   string
	DeleteID int64
}

// panelFor returns the session's panel, loading the list for a new session.
func (s *Server) panelFor(w http.ResponseWriter, r *http.Request) *panel.Panel {
	p, created := s.sessions.Get(w, r)
	if created {
		_ = p.Refresh(r.Context())
	}
	return p
}

func viewOptions(r *http.Request) view.Options {
	return view.Options{Locale: view.MatchLocale(r.Header.Get("Accept-Language"))}
}

func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("render page", zap.String("template", name), zap.Error(err))
	}
}

// handleIndex renders the panel. The q parameter searches; category and
// recommended apply a filter.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	p := s.panelFor(w, r)

	q := r.URL.Query()
	switch {
	case q.Has("q"):
		p.Search(q.Get("q"))
	case q.Has("category") || q.Has("recommended"):
		p.Filter(panel.Filter{
			Category:        q.Get("category"),
			RecommendedOnly: q.Get("recommended") != "",
		})
	}

	opts := viewOptions(r)
	s.render(w, "index.html", pageData{
		State:  p.View(opts),
		Locale: opts.Locale.Tag.String(),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	p, _ := s.sessions.Get(w, r)
	if err := p.Refresh(r.Context()); err != nil {
		s.log.Debug("refresh failed", zap.Error(err))
	}
	redirectHome(w, r)
}

func (s *Server) handleOpenCreate(w http.ResponseWriter, r *http.Request) {
	s.panelFor(w, r).OpenCreate()
	redirectHome(w, r)
}

func (s *Server) handleOpenEdit(w http.ResponseWriter, r *http.Request) {
	p := s.panelFor(w, r)
	if id, ok := idParam(r); ok {
		p.OpenEdit(id)
	}
	redirectHome(w, r)
}

func (s *Server) handleCloseModal(w http.ResponseWriter, r *http.Request) {
	s.panelFor(w, r).CloseModal()
	redirectHome(w, r)
}

// handleSubmit saves the posted form. Failures are shown as notices on the
// page the browser is redirected to.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	p := s.panelFor(w, r)
	if err := parseForm(r); err != nil {
		s.log.Debug("parse submit form", zap.Error(err))
		p.ReportError("Save failed: the form could not be read")
		redirectHome(w, r)
		return
	}
	_ = p.Submit(r.Context(), formFromRequest(r))
	redirectHome(w, r)
}

func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	p := s.panelFor(w, r)
	id, ok := idParam(r)
	if !ok {
		redirectHome(w, r)
		return
	}
	a, ok := p.Lookup(id)
	if !ok {
		redirectHome(w, r)
		return
	}

	opts := viewOptions(r)
	s.render(w, "confirm.html", pageData{
		State:    p.View(opts),
		Locale:   opts.Locale.Tag.String(),
		Prompt:   panel.DeletePrompt(&a),
		DeleteID: id,
	})
}

// handleDelete deletes the record when the confirmation form answered yes.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	p := s.panelFor(w, r)
	id, ok := idParam(r)
	if !ok {
		redirectHome(w, r)
		return
	}
	confirmed := r.PostFormValue("confirm") == "yes"
	_, err := p.Delete(r.Context(), id, panel.ConfirmFunc(func(string) bool { return confirmed }))
	if errors.Is(err, panel.ErrNotFound) {
		s.log.Debug("delete of unknown attraction", zap.Int64("id", id))
	}
	redirectHome(w, r)
}

// handleUpload uploads the chosen image. The rest of the form is kept so
// typed values survive the round trip. With drop=1 or several files the
// drop rules apply.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	p := s.panelFor(w, r)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.log.Debug("parse upload form", zap.Error(err))
		p.ReportError("Image upload failed: the upload could not be read")
		redirectHome(w, r)
		return
	}
	if _, ok := r.MultipartForm.Value["name"]; ok {
		p.SetForm(formFromRequest(r))
	}

	headers := r.MultipartForm.File["file"]
	files := make([]panel.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readFile(fh)
		if err != nil {
			s.log.Debug("read upload", zap.String("file", fh.Filename), zap.Error(err))
			p.ReportError("Image upload failed: the upload could not be read")
			redirectHome(w, r)
			return
		}
		files = append(files, f)
	}

	var err error
	switch {
	case r.FormValue("drop") == "1" || len(files) > 1:
		err = p.Drop(r.Context(), files)
	case len(files) == 1:
		err = p.UploadImage(r.Context(), files[0])
	default:
		err = panel.ErrNoFile
	}
	if errors.Is(err, panel.ErrNotImage) || errors.Is(err, panel.ErrNoFile) {
		s.log.Debug("upload ignored", zap.Error(err))
	}
	redirectHome(w, r)
}

func (s *Server) handleDragOver(w http.ResponseWriter, r *http.Request) {
	s.panelFor(w, r).DragOver()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDragLeave(w http.ResponseWriter, r *http.Request) {
	s.panelFor(w, r).DragLeave()
	w.WriteHeader(http.StatusNoContent)
}

// handleExport downloads the full snapshot as JSON.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	p := s.panelFor(w, r)
	exp, err := p.Export()
	if err != nil {
		// Export has already set the error notice.
		s.log.Error("export", zap.Error(err))
		redirectHome(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exp.Filename+`"`)
	w.Write(exp.Data)
}

// parseForm reads a multipart or url-encoded body. The dialog posts multipart
// so the same form can carry an image.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxUploadMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func formFromRequest(r *http.Request) panel.Form {
	return panel.Form{
		Name:          r.FormValue("name"),
		Category:      r.FormValue("category"),
		Description:   r.FormValue("description"),
		Latitude:      r.FormValue("latitude"),
		Longitude:     r.FormValue("longitude"),
		Rating:        r.FormValue("rating"),
		Distance:      r.FormValue("distance"),
		SortOrder:     r.FormValue("sort_order"),
		IsRecommended: r.FormValue("is_recommended") != "",
		CoverImage:    r.FormValue("cover_image"),
	}
}

func readFile(fh *multipart.FileHeader) (panel.File, error) {
	f, err := fh.Open()
	if err != nil {
		return panel.File{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return panel.File{}, err
	}
	return panel.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
