// Package api is the HTTP client for the board server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request made by the client
const DefaultTimeout = 30 * time.Second

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the server
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Client talks to the board API on behalf of one user
type Client struct {
	baseURL    string
	username   string
	timeout    time.Duration
	httpClient *http.Client
}

type Option func(*Client)

// WithUsername sends the user name in the X-User header
func WithUsername(username string) Option {
	return func(c *Client) { c.username = username }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Username returns the user the client acts for
func (c *Client) Username() string {
	return c.username
}

func (c *Client) FetchBoard(ctx context.Context) (*BoardResponse, error) {
	var resp BoardResponse
	if err := c.do(ctx, http.MethodGet, "/api/board", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateColumn(ctx context.Context, columnID int, update ColumnUpdate) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/columns/%d", columnID), update, nil)
}

// CreateCard creates a card and returns its raw server id
func (c *Client) CreateCard(ctx context.Context, card CardCreate) (string, error) {
	var resp createdResponse
	if err := c.do(ctx, http.MethodPost, "/api/cards", card, &resp); err != nil {
		return "", err
	}
	return string(resp.ID), nil
}

func (c *Client) UpdateCard(ctx context.Context, cardID int, update CardUpdate) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/cards/%d", cardID), update, nil)
}

func (c *Client) DeleteCard(ctx context.Context, cardID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cards/%d", cardID), nil, nil)
}

func (c *Client) SendChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.History == nil {
		req.History = []ChatMessage{}
	}
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AuthStatus reports the session held by the client's cookie jar
func (c *Client) AuthStatus(ctx context.Context) (*AuthStatus, error) {
	var resp AuthStatus
	if err := c.do(ctx, http.MethodGet, "/api/auth/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login starts a cookie session. Rejected credentials come back as a 401 APIError.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.Header.Set("X-User", c.username)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = "Request failed"
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
