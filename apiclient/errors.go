package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-agri-dashboard/internal/errors"
)

// APIError is returned for every non-2xx response
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	RequestID  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("[API] %s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if detail := e.Message(""); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// Unwrap maps well known statuses onto the package sentinels so callers can
// use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return apperrors.ErrNotAuthenticated
	case e.StatusCode == http.StatusNotFound:
		return apperrors.ErrNotFound
	case e.StatusCode >= http.StatusInternalServerError:
		return apperrors.ErrServer
	}
	return nil
}

// Message extracts a human readable message from the body, trying
// details.message, error and detail in that order.
func (e *APIError) Message(fallback string) string {
	var body struct {
		Details json.RawMessage `json:"details"`
		Error   json.RawMessage `json:"error"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return fallback
	}

	var details struct {
		Message json.RawMessage `json:"message"`
	}
	if len(body.Details) > 0 && json.Unmarshal(body.Details, &details) == nil {
		if msg := rawString(details.Message); msg != "" {
			return msg
		}
	}
	if msg := rawString(body.Error); msg != "" {
		return msg
	}
	if msg := rawString(body.Detail); msg != "" {
		return msg
	}
	return fallback
}

// FieldErrors parses a 400 body into messages keyed by the server's field
// names. The fields are read from "details" when it is an object, otherwise
// from the top level. Each value may be a list or a single message.
func (e *APIError) FieldErrors() (map[string][]string, bool) {
	if e.StatusCode != http.StatusBadRequest {
		return nil, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &raw); err != nil {
		return nil, false
	}
	if details, ok := raw["details"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(details, &nested); err == nil && nested != nil {
			raw = nested
		}
	}

	fields := make(map[string][]string, len(raw))
	for name, value := range raw {
		fields[name] = rawMessages(value)
	}
	return fields, len(fields) > 0
}

func rawMessages(value json.RawMessage) []string {
	var list []json.RawMessage
	if err := json.Unmarshal(value, &list); err == nil {
		messages := make([]string, 0, len(list))
		for _, item := range list {
			messages = append(messages, rawText(item))
		}
		return messages
	}
	return []string{rawText(value)}
}

// rawText renders a JSON value as message text; strings lose their quotes
func rawText(value json.RawMessage) string {
	if s := rawString(value); s != "" {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, value); err != nil {
		return strings.TrimSpace(string(value))
	}
	return compact.String()
}

func rawString(value json.RawMessage) string {
	var s string
	if len(value) == 0 || json.Unmarshal(value, &s) != nil {
		return ""
	}
	return s
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if apperrors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
