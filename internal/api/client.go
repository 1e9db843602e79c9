// Package api is the HTTP client for the lesson storage and progress
// collaborator.
//
// Requests are fired once: the client never retries, and failures are
// returned to the caller to be surfaced to the learner.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yufin/yufin/internal/content"
)

// DefaultTimeout bounds each request.
const DefaultTimeout = 15 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the collaborator over HTTP.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a client for the collaborator at opts.BaseURL.
func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("base URL required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{baseURL: baseURL, timeout: timeout, httpClient: hc}, nil
}

// Lesson fetches one lesson record.
func (c *Client) Lesson(ctx context.Context, id string) (content.Lesson, error) {
	var l content.Lesson
	if err := c.doJSON(ctx, http.MethodGet, "/lessons/"+url.PathEscape(id), nil, &l); err != nil {
		return content.Lesson{}, fmt.Errorf("get lesson %s: %w", id, err)
	}
	return l, nil
}

// Lessons fetches the lesson index.
func (c *Client) Lessons(ctx context.Context) ([]LessonSummary, error) {
	var out []LessonSummary
	if err := c.doJSON(ctx, http.MethodGet, "/lessons", nil, &out); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return out, nil
}

// CompleteLesson submits a completion for userID. A completion the
// collaborator already holds yields ErrDuplicateCompletion.
func (c *Client) CompleteLesson(ctx context.Context, userID string, req Completion) (*Progress, error) {
	var p Progress
	path := "/users/" + url.PathEscape(userID) + "/complete-lesson"
	if err := c.doJSON(ctx, http.MethodPost, path, req, &p); err != nil {
		return nil, fmt.Errorf("complete lesson %s: %w", req.LessonID, err)
	}
	return &p, nil
}

// User fetches the learner state.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	var u User
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = &buf
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseHTTPError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
