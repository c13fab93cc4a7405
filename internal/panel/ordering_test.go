package panel

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/meur/attractions-admin/internal/models"
	"github.com/meur/attractions-admin/internal/view"
)

type listReply struct {
	items []models.Attraction
	err   error
}

type uploadReply struct {
	path string
	err  error
}

// gatedAPI hands every List and UploadImage call to the test, which answers
// each one when it chooses.
type gatedAPI struct {
	*fakeAPI
	lists   chan chan listReply
	uploads chan chan uploadReply
}

func newGatedAPI() *gatedAPI {
	return &gatedAPI{
		fakeAPI: &fakeAPI{},
		lists:   make(chan chan listReply),
		uploads: make(chan chan uploadReply),
	}
}

func (g *gatedAPI) List(ctx context.Context, pageSize int) ([]models.Attraction, error) {
	reply := make(chan listReply)
	g.lists <- reply
	r := <-reply
	return r.items, r.err
}

func (g *gatedAPI) UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	reply := make(chan uploadReply)
	g.uploads <- reply
	res := <-reply
	return res.path, res.err
}

func receive[T any](t *testing.T, ch chan chan T) chan T {
	t.Helper()
	select {
	case reply := <-ch:
		return reply
	case <-time.After(2 * time.Second):
		t.Fatal("call never reached the API")
		return nil
	}
}

func wait(t *testing.T, done chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("operation did not finish")
		return nil
	}
}

func TestStaleListResponseIsDropped(t *testing.T) {
	api := newGatedAPI()
	p := New(api)

	firstDone := make(chan error, 1)
	go func() { firstDone <- p.Refresh(context.Background()) }()
	first := receive(t, api.lists)

	secondDone := make(chan error, 1)
	go func() { secondDone <- p.refreshAfterWrite(context.Background()) }()
	second := receive(t, api.lists)

	newer := []models.Attraction{{ID: 1, Name: "Lake"}, {ID: 2, Name: "Museum"}}
	second <- listReply{items: newer}
	if err := wait(t, secondDone); err != nil {
		t.Fatalf("second refresh: %v", err)
	}

	first <- listReply{items: []models.Attraction{{ID: 1, Name: "Old Lake"}}}
	if err := wait(t, firstDone); err != nil {
		t.Fatalf("stale refresh: %v", err)
	}

	if got := ids(p.Snapshot()); len(got) != 2 || p.Snapshot()[0].Name != "Lake" {
		t.Fatalf("snapshot = %+v, stale response overwrote it", p.Snapshot())
	}
	if st := p.View(view.Options{}); st.Status != ListReady {
		t.Fatalf("status = %v", st.Status)
	}
}

func TestStaleListFailureIsDropped(t *testing.T) {
	api := newGatedAPI()
	p := New(api)

	firstDone := make(chan error, 1)
	go func() { firstDone <- p.Refresh(context.Background()) }()
	first := receive(t, api.lists)

	secondDone := make(chan error, 1)
	go func() { secondDone <- p.refreshAfterWrite(context.Background()) }()
	second := receive(t, api.lists)

	second <- listReply{items: []models.Attraction{{ID: 3, Name: "Tower"}}}
	wait(t, secondDone)
	first <- listReply{err: errors.New("connection reset")}
	wait(t, firstDone)

	st := p.View(view.Options{})
	if st.Status != ListReady || st.ListError != "" {
		t.Fatalf("status = %v, error = %q", st.Status, st.ListError)
	}
	if len(p.Snapshot()) != 1 {
		t.Fatalf("snapshot = %+v", p.Snapshot())
	}
}

func TestSupersededUploadIsIgnored(t *testing.T) {
	api := newGatedAPI()
	p := New(api)
	p.OpenCreate()

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- p.UploadImage(context.Background(), File{Name: "a.png", ContentType: "image/png", Data: pngHeader})
	}()
	first := receive(t, api.uploads)

	secondDone := make(chan error, 1)
	go func() {
		secondDone <- p.UploadImage(context.Background(), File{Name: "b.png", ContentType: "image/png", Data: pngHeader})
	}()
	second := receive(t, api.uploads)

	second <- uploadReply{path: "/static/attractions/b.png"}
	if err := wait(t, secondDone); err != nil {
		t.Fatalf("second upload: %v", err)
	}
	first <- uploadReply{path: "/static/attractions/a.png"}
	wait(t, firstDone)

	if pv := p.Preview(); pv.State != PreviewConfirmed || pv.ServerPath != "/static/attractions/b.png" {
		t.Fatalf("preview = %+v", pv)
	}
	if got := p.Form().CoverImage; got != "/static/attractions/b.png" {
		t.Fatalf("cover image = %q", got)
	}
}

func TestUploadOrphanedByReopenIsIgnored(t *testing.T) {
	api := newGatedAPI()
	p := New(api)
	p.OpenCreate()

	done := make(chan error, 1)
	go func() {
		done <- p.UploadImage(context.Background(), File{Name: "a.png", ContentType: "image/png", Data: pngHeader})
	}()
	reply := receive(t, api.uploads)

	p.CloseModal()
	p.OpenCreate()

	reply <- uploadReply{path: "/static/attractions/a.png"}
	wait(t, done)

	if pv := p.Preview(); pv.Visible() {
		t.Fatalf("reopened dialog shows old upload: %+v", pv)
	}
	if got := p.Form().CoverImage; got != "" {
		t.Fatalf("cover image = %q", got)
	}
	if n := p.Notices(); len(n) != 0 {
		t.Fatalf("notices = %+v", n)
	}
}

func TestSubmitLeavesReopenedDialogOpen(t *testing.T) {
	api := &fakeAPI{items: scenarioItems()}
	p := loadedPanel(t, api)
	api.block = make(chan struct{})

	p.OpenCreate()
	f := EmptyForm()
	f.Name = "Garden"

	done := make(chan error, 1)
	go func() { done <- p.Submit(context.Background(), f) }()

	deadline := time.Now().Add(2 * time.Second)
	for len(api.Calls()) < 2 {
		if time.Now().After(deadline) {
			t.Fatal("submit never reached the API")
		}
		time.Sleep(time.Millisecond)
	}

	p.CloseModal()
	if !p.OpenEdit(2) {
		t.Fatal("open edit for 2")
	}
	close(api.block)
	if err := wait(t, done); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if m := p.Modal(); m.Mode != ModalEdit || m.ID != 2 {
		t.Fatalf("modal = %+v, want edit of 2", m)
	}
	if got := p.Form().Name; got != "Museum" {
		t.Fatalf("form name = %q, want the reopened record", got)
	}
}
