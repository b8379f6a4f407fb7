package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrijs2005/moodjournal/internal/common"
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (status %d)", e.kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d): %s", e.kind, e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

const maxMessageLen = 200

var errUnexpectedStatus = errors.New("unexpected status")

func mapStatus(code int, body []byte) error {
	var kind error
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = common.ErrValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = common.ErrUnauthorized
	case http.StatusNotFound:
		kind = common.ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		kind = common.ErrUnavailable
	default:
		kind = errUnexpectedStatus
	}
	return &StatusError{StatusCode: code, Message: errorMessage(body), kind: kind}
}

// errorMessage extracts {"detail": "..."} or flattens field errors such as
// {"username": ["already taken"]}.
func errorMessage(body []byte) string {
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return detail.Detail
	}

	var fields map[string][]string
	if err := json.Unmarshal(body, &fields); err == nil && len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for name, msgs := range fields {
			parts = append(parts, name+": "+strings.Join(msgs, " "))
		}
		slices.Sort(parts)
		return truncate(strings.Join(parts, "; "))
	}

	return truncate(strings.TrimSpace(string(body)))
}

func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	return s[:maxMessageLen] + "..."
}
