package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is a non-success response from the attractions API.
type APIError struct {
	Status int
	Detail string
	Body   string
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{
		Status: status,
		Body:   strings.TrimSpace(string(body)),
	}
	var eb struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &eb) == nil && len(eb.Detail) > 0 {
		// detail is usually a string but validation failures carry a list.
		var s string
		if json.Unmarshal(eb.Detail, &s) == nil {
			e.Detail = s
		} else {
			e.Detail = string(eb.Detail)
		}
	}
	return e
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("status %d", e.Status)
}

// TransportError wraps a request that never completed.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Detail extracts a user-facing message from err. Server-provided details win;
// an API error without one yields fallback. Transport failures report the
// underlying cause.
func Detail(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var ae *APIError
	if errors.As(err, &ae) {
		if ae.Detail != "" {
			return ae.Detail
		}
		return fallback
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Err.Error()
	}
	return err.Error()
}
