package panel

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/meur/attractions-admin/internal/client"
	"github.com/meur/attractions-admin/internal/models"
)

const (
	unknownError = "unknown error"
	refreshKey   = "list"
)

// Refresh fetches the list and replaces the snapshot on success. Concurrent
// callers share one request. On failure the snapshot is kept and the list
// area shows the error.
func (p *Panel) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.status = ListLoading
	p.mu.Unlock()

	_, err, _ := p.refreshGroup.Do(refreshKey, func() (any, error) {
		return nil, p.load(ctx)
	})
	return err
}

// refreshAfterWrite starts a new fetch even when one is already in flight,
// since that one may have been issued before the write landed.
func (p *Panel) refreshAfterWrite(ctx context.Context) error {
	p.refreshGroup.Forget(refreshKey)
	return p.Refresh(ctx)
}

func (p *Panel) load(ctx context.Context) error {
	p.mu.Lock()
	p.refreshSeq++
	p.inflight++
	seq := p.refreshSeq
	p.mu.Unlock()

	items, err := p.api.List(ctx, ListPageSize)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inflight--

	if seq < p.appliedSeq {
		// a newer fetch already landed
		if p.inflight == 0 && p.status == ListLoading {
			p.status = ListReady
			if p.listErr != "" {
				p.status = ListError
			}
		}
		return nil
	}
	p.appliedSeq = seq

	if err != nil {
		p.status = ListError
		if client.IsTransport(err) {
			p.listErr = "Network error: " + client.Detail(err, unknownError)
		} else {
			p.listErr = "Failed to load attractions: " + client.Detail(err, unknownError)
		}
		p.log.Warn("load attractions failed", zap.Error(err))
		return err
	}

	p.snapshot = items
	p.visible = cloneList(items)
	p.filter = Filter{}
	p.keyword = ""
	p.status = ListReady
	p.listErr = ""
	return nil
}

// Submit sends the form as a create, or as an update of the record being
// edited. On success the dialog closes and the list is refetched; on failure
// the dialog stays open with an error notice.
func (p *Panel) Submit(ctx context.Context, f Form) error {
	p.mu.Lock()
	if p.submitting {
		p.notices.setError("Save failed: " + ErrSubmitInFlight.Error())
		p.mu.Unlock()
		return ErrSubmitInFlight
	}
	p.form = f
	modal := p.modal
	in, err := f.Input()
	if err != nil {
		p.notices.setError("Save failed: " + err.Error())
		p.mu.Unlock()
		return err
	}
	p.submitting = true
	p.notices.clearError()
	p.mu.Unlock()

	editID, editing := modal.EditID()
	var saved *models.Attraction
	if editing {
		saved, err = p.api.Update(ctx, editID, in)
	} else {
		saved, err = p.api.Create(ctx, in)
	}

	p.mu.Lock()
	p.submitting = false
	if err != nil {
		p.notices.setError(failureMessage("Save failed", err))
		p.mu.Unlock()
		p.log.Warn("save attraction failed",
			zap.Bool("update", editing),
			zap.Int64("id", editID),
			zap.Error(err),
		)
		return err
	}

	if editing {
		p.notices.addSuccess(p.now(), "Attraction updated")
	} else {
		p.notices.addSuccess(p.now(), "Attraction created")
	}
	// Leave a dialog the user reopened for something else alone.
	if p.modal == modal {
		p.modal = Modal{}
	}
	p.mu.Unlock()

	if saved != nil {
		p.log.Debug("attraction saved", zap.Int64("id", saved.ID), zap.Bool("update", editing))
	}
	_ = p.refreshAfterWrite(ctx)
	return nil
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// DeletePrompt is the confirmation question for a.
func DeletePrompt(a *models.Attraction) string {
	return fmt.Sprintf("Delete attraction %q? This cannot be undone.", a.Name)
}

// Delete asks c to confirm and then deletes record id. It returns false with
// no request made when the record is unknown or the user declines.
func (p *Panel) Delete(ctx context.Context, id int64, c Confirmer) (bool, error) {
	p.mu.Lock()
	a, ok := p.find(id)
	p.mu.Unlock()
	if !ok {
		return false, ErrNotFound
	}

	if c == nil || !c.Confirm(DeletePrompt(&a)) {
		return false, nil
	}

	if err := p.api.Delete(ctx, id); err != nil {
		p.mu.Lock()
		p.notices.setError(failureMessage("Delete failed", err))
		p.mu.Unlock()
		p.log.Warn("delete attraction failed", zap.Int64("id", id), zap.Error(err))
		return false, err
	}

	p.mu.Lock()
	p.notices.addSuccess(p.now(), "Attraction deleted")
	p.mu.Unlock()

	_ = p.refreshAfterWrite(ctx)
	return true, nil
}

// Lookup returns record id from the snapshot.
func (p *Panel) Lookup(id int64) (models.Attraction, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.find(id)
}

func failureMessage(prefix string, err error) string {
	if client.IsTransport(err) {
		return "Network error: " + client.Detail(err, unknownError)
	}
	return prefix + ": " + client.Detail(err, unknownError)
}
