package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meur/attractions-admin/internal/models"
)

// MaxPageSize is the largest page the attractions API will return.
const MaxPageSize = 100

const defaultTimeout = 15 * time.Second

// Client talks to the attractions REST API.
type Client struct {
	baseURL string
	session *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.session = hc
	}
}

// WithTimeout sets the per-request timeout. Zero disables it. The HTTP
// client is copied first so a shared client is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.session
		hc.Timeout = d
		c.session = &hc
	}
}

// New creates a client for the API rooted at baseURL (e.g. http://localhost:8000).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		session: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List fetches up to pageSize attractions from the first page.
func (c *Client) List(ctx context.Context, pageSize int) ([]models.Attraction, error) {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/api/attractions", nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("page_size", strconv.Itoa(pageSize))
	req.URL.RawQuery = q.Encode()

	var list models.AttractionList
	if err := c.doJSON(req, &list); err != nil {
		return nil, fmt.Errorf("list attractions: %w", err)
	}
	if list.Items == nil {
		list.Items = []models.Attraction{}
	}
	return list.Items, nil
}

// Create adds a new attraction and returns the stored record.
func (c *Client) Create(ctx context.Context, in models.AttractionInput) (*models.Attraction, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/attractions", in)
	if err != nil {
		return nil, err
	}

	var out models.Attraction
	if err := c.doJSON(req, &out); err != nil {
		return nil, fmt.Errorf("create attraction: %w", err)
	}
	return &out, nil
}

// Update replaces the writable fields of attraction id.
func (c *Client) Update(ctx context.Context, id int64, in models.AttractionInput) (*models.Attraction, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPut, attractionPath(id), in)
	if err != nil {
		return nil, err
	}

	var out models.Attraction
	if err := c.doJSON(req, &out); err != nil {
		return nil, fmt.Errorf("update attraction %d: %w", id, err)
	}
	return &out, nil
}

// Delete removes attraction id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, attractionPath(id), nil)
	if err != nil {
		return err
	}
	if err := c.doJSON(req, nil); err != nil {
		return fmt.Errorf("delete attraction %d: %w", id, err)
	}
	return nil
}

// UploadImage sends an image as the multipart field "file" and returns the
// server path the image is reachable at.
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("copy image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/attractions/upload-image", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out models.UploadResult
	if err := c.doJSON(req, &out); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if out.FilePath == "" {
		return "", fmt.Errorf("upload image: response has no file_path")
	}
	return out.FilePath, nil
}

func attractionPath(id int64) string {
	return "/api/attractions/" + strconv.FormatInt(id, 10)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, v any) (*http.Request, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// doJSON executes req and decodes a successful body into out (if non-nil).
// Non-2xx responses become *APIError.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.session.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return newAPIError(resp.StatusCode, b)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// IsTransport reports whether err is a network failure where no response arrived.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
