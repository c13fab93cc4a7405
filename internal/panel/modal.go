package panel

// ModalMode is the state of the add/edit dialog.
type ModalMode int

const (
	ModalClosed ModalMode = iota
	ModalCreate
	ModalEdit
)

// Modal is the dialog state. ID is meaningful only in ModalEdit.
type Modal struct {
	Mode ModalMode
	ID   int64
}

// Open reports whether the dialog is visible.
func (m Modal) Open() bool {
	return m.Mode != ModalClosed
}

// EditID returns the record being edited.
func (m Modal) EditID() (int64, bool) {
	if m.Mode != ModalEdit {
		return 0, false
	}
	return m.ID, true
}

// Title is the dialog heading.
func (m Modal) Title() string {
	if m.Mode == ModalEdit {
		return "Edit attraction"
	}
	return "Add attraction"
}

// OpenCreate opens an empty form in create mode.
func (p *Panel) OpenCreate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.modal = Modal{Mode: ModalCreate}
	p.form = EmptyForm()
	p.resetPreview()
}

// OpenEdit opens the form populated from snapshot record id. It returns false
// and changes nothing when the record is not in the snapshot.
func (p *Panel) OpenEdit(id int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, ok := p.find(id)
	if !ok {
		return false
	}

	p.modal = Modal{Mode: ModalEdit, ID: id}
	p.form = FormFromAttraction(&a)
	p.resetPreview()
	if a.CoverImage != nil && *a.CoverImage != "" {
		p.preview = Preview{State: PreviewConfirmed, ServerPath: *a.CoverImage}
	}
	return true
}

// CloseModal hides the dialog and clears the current-edit identifier.
// An in-flight submit is not cancelled.
func (p *Panel) CloseModal() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.modal = Modal{}
}

// resetPreview drops the preview and orphans any upload still in flight.
func (p *Panel) resetPreview() {
	p.uploadID++
	p.preview = Preview{}
}
