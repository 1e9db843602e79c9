package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is returned when the lesson or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateCompletion is returned when the user already completed the
	// lesson.
	ErrDuplicateCompletion = errors.New("lesson already completed")
)

// HTTPError is a non-2xx response from the collaborator.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		msg = "http error"
	}
	return fmt.Sprintf("http error: status=%d message=%s", e.StatusCode, msg)
}

// Unwrap maps well-known statuses to sentinel errors.
func (e *HTTPError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrDuplicateCompletion
	default:
		return nil
	}
}

// Temporary reports whether retrying the same request may succeed.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// ErrorBody is the error envelope written by the server.
type ErrorBody struct {
	Error string `json:"error"`
}

func parseHTTPError(status int, raw []byte) error {
	body := strings.TrimSpace(string(raw))

	var env ErrorBody
	if err := json.Unmarshal(raw, &env); err == nil && strings.TrimSpace(env.Error) != "" {
		return &HTTPError{StatusCode: status, Message: strings.TrimSpace(env.Error), Body: body}
	}
	return &HTTPError{StatusCode: status, Body: body}
}
