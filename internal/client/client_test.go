package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meur/attractions-admin/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestListRequestsPageSize(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/attractions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("page_size"); got != "100" {
			t.Errorf("page_size = %q, want 100", got)
		}
		w.Write([]byte(`{"items":[{"id":1,"name":"Lake","category":"nature"}],"total":1}`))
	})

	items, err := c.List(context.Background(), 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != 1 || items[0].Name != "Lake" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestListEmptyItemsIsNotNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total":0}`))
	})

	items, err := c.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestCreateSendsNullForAbsentOptionals(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/attractions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode: %v", err)
			return
		}
		for _, k := range []string{"latitude", "longitude", "description", "distance", "cover_image"} {
			if string(raw[k]) != "null" {
				t.Errorf("%s = %s, want null", k, raw[k])
			}
		}
		if _, ok := raw["id"]; ok {
			t.Errorf("create payload must not carry id")
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":7,"name":"Lake"}`))
	})

	got, err := c.Create(context.Background(), models.AttractionInput{Name: "Lake", Category: "nature", Rating: 4.5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("id = %d, want 7", got.ID)
	}
}

func TestUpdateUsesIDPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/attractions/2" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"id":2,"name":"Museum"}`))
	})

	if _, err := c.Update(context.Background(), 2, models.AttractionInput{Name: "Museum"}); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "string detail", status: 404, body: `{"detail":"not found"}`, want: "not found"},
		{name: "no detail", status: 500, body: `oops`, want: "unknown error"},
		{name: "list detail", status: 422, body: `{"detail":[{"msg":"bad"}]}`, want: `[{"msg":"bad"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := c.Delete(context.Background(), 1)
			var ae *APIError
			if !errors.As(err, &ae) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if ae.Status != tt.status {
				t.Errorf("status = %d, want %d", ae.Status, tt.status)
			}
			if got := Detail(err, "unknown error"); got != tt.want {
				t.Errorf("detail = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	srv.Close()

	_, err = c.List(context.Background(), 100)
	if !IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestUploadImageMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/attractions/upload-image" {
			t.Errorf("path = %s", r.URL.Path)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		if hdr.Filename != "lake.png" || string(b) != "PNGDATA" {
			t.Errorf("unexpected upload %q %q", hdr.Filename, b)
		}
		if ct := hdr.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("content type = %q", ct)
		}
		w.Write([]byte(`{"success":true,"file_path":"/static/attractions/abc.png"}`))
	})

	path, err := c.UploadImage(context.Background(), "lake.png", "image/png", strings.NewReader("PNGDATA"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if path != "/static/attractions/abc.png" {
		t.Fatalf("path = %q", path)
	}
}

func TestNewRejectsBadScheme(t *testing.T) {
	if _, err := New("ftp://example.com"); err == nil {
		t.Fatal("expected error for ftp scheme")
	}
}

func TestWithTimeoutLeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{}
	c, err := New("http://localhost:8000", WithHTTPClient(shared), WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if shared.Timeout != 0 {
		t.Fatalf("shared client timeout changed to %v", shared.Timeout)
	}
	if c.session.Timeout != 2*time.Second {
		t.Fatalf("client timeout = %v", c.session.Timeout)
	}
}
