// Package client is an HTTP client for the participant API.
//
// A 400 response is returned as *ValidationError carrying the server's
// message, which is meant to be shown to the user as-is. 404 maps to
// ErrNotFound. Every other failure is a *ServerError or a transport error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/allotment/internal/models"
)

// ErrNotFound is returned when the server has no such participant.
var ErrNotFound = errors.New("participant not found")

// ValidationError is a rejection the user can correct, such as a duplicate
// name or an over-allocation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ServerError is any other non-2xx response.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to one allotment server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the server at baseURL, e.g. "http://localhost:5001".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches all participants and the remaining quota.
func (c *Client) List(ctx context.Context) (models.Summary, error) {
	var summary models.Summary
	err := c.do(ctx, http.MethodGet, "/participants", nil, &summary)
	return summary, err
}

// Get fetches one participant.
func (c *Client) Get(ctx context.Context, id int64) (models.Participant, error) {
	var p models.Participant
	err := c.do(ctx, http.MethodGet, participantPath(id), nil, &p)
	return p, err
}

// Add creates a participant.
func (c *Client) Add(ctx context.Context, firstName, lastName string, percentage float64) (models.Participant, error) {
	body := map[string]any{
		"first_name": firstName,
		"last_name":  lastName,
		"percentage": percentage,
	}
	var p models.Participant
	err := c.do(ctx, http.MethodPost, "/participants", body, &p)
	return p, err
}

// UpdatePercentage changes the share of a participant.
func (c *Client) UpdatePercentage(ctx context.Context, id int64, percentage float64) (models.Participant, error) {
	var p models.Participant
	err := c.do(ctx, http.MethodPut, participantPath(id), map[string]any{"percentage": percentage}, &p)
	return p, err
}

// Delete removes a participant.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, participantPath(id), nil, nil)
}

func participantPath(id int64) string {
	return "/participants/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return &ValidationError{Message: apiErr.Error}
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return &ServerError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}
}
