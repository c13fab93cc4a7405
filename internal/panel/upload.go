package panel

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// PreviewState tracks the cover image shown in the form.
type PreviewState int

const (
	// PreviewNone shows nothing.
	PreviewNone PreviewState = iota
	// PreviewPending shows the local file while the upload is in flight.
	PreviewPending
	// PreviewConfirmed shows an image the server has stored.
	PreviewConfirmed
	// PreviewFailed keeps showing the local file; the server never stored it.
	PreviewFailed
)

// Preview is the image preview. LocalURL is a data URL of the chosen file
// and ServerPath the path returned by the upload endpoint; they differ.
type Preview struct {
	State      PreviewState
	LocalURL   string
	ServerPath string
}

// Visible reports whether a preview image should be drawn.
func (p Preview) Visible() bool {
	return p.State != PreviewNone
}

// Src is the image source to draw.
func (p Preview) Src() string {
	if p.LocalURL != "" {
		return p.LocalURL
	}
	return p.ServerPath
}

// File is an image chosen or dropped by the user.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// DetectedType sniffs the content type from the file bytes.
func (f File) DetectedType() string {
	return http.DetectContentType(f.Data)
}

func (f File) dataURL() string {
	ct := f.ContentType
	if ct == "" {
		ct = f.DetectedType()
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// UploadImage shows f as a pending preview immediately, then uploads it. On
// success the form's cover image is set to the server path.
func (p *Panel) UploadImage(ctx context.Context, f File) error {
	if len(f.Data) == 0 {
		return ErrNoFile
	}

	p.mu.Lock()
	p.uploadID++
	id := p.uploadID
	p.preview = Preview{State: PreviewPending, LocalURL: f.dataURL()}
	p.mu.Unlock()

	path, err := p.api.UploadImage(ctx, f.Name, f.ContentType, bytes.NewReader(f.Data))

	p.mu.Lock()
	defer p.mu.Unlock()

	if id != p.uploadID {
		// superseded by a later upload
		return err
	}

	if err != nil {
		p.preview.State = PreviewFailed
		p.notices.setError(failureMessage("Image upload failed", err))
		p.log.Warn("upload image failed", zap.String("file", f.Name), zap.Error(err))
		return err
	}

	p.preview.State = PreviewConfirmed
	p.preview.ServerPath = path
	p.form.CoverImage = path
	p.notices.addSuccess(p.now(), "Image uploaded")
	return nil
}

// DragOver marks the drop area as active.
func (p *Panel) DragOver() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dragging = true
}

// DragLeave clears the drop area highlight.
func (p *Panel) DragLeave() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dragging = false
}

// Dragging reports whether the drop area is highlighted.
func (p *Panel) Dragging() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dragging
}

// Drop takes the first dropped file and uploads it when its content sniffs
// as an image. Other files are ignored.
func (p *Panel) Drop(ctx context.Context, files []File) error {
	p.DragLeave()

	if len(files) == 0 {
		return ErrNoFile
	}
	first := files[0]
	if !strings.HasPrefix(first.DetectedType(), "image/") {
		return ErrNotImage
	}
	return p.UploadImage(ctx, first)
}
