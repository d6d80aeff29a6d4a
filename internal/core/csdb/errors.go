package csdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is matched by API errors with status 404.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedMedia is matched by API errors with status 415, which the
	// backend returns for resources it cannot serve to a browser (CGM).
	ErrUnsupportedMedia = errors.New("unsupported media type")
	// ErrTooLarge is returned when a response body is larger than the limit
	// for its endpoint. Nothing is cached for such a response.
	ErrTooLarge = errors.New("response too large")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("csdb: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("csdb: %d %s", e.Status, e.Detail)
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnsupportedMedia:
		return e.Status == http.StatusUnsupportedMediaType
	}
	return false
}

// newAPIError builds an APIError from a response body. The body is expected to
// be {"detail": ...} where detail is a string or any JSON value; anything else
// is used verbatim.
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}

	detail := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			detail = s
		} else {
			detail = string(payload.Detail)
		}
	}

	return &APIError{Status: status, Detail: detail}
}
