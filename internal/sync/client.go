// Package sync implements the device-side sync engine: an API client
// for the snapshot endpoints and a coordinator that decides sync
// direction and applies the result to the local cache.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"studyflow/internal/domain"
	"studyflow/internal/domain/models"
)

// TokenSource yields a fresh bearer token on demand. The client calls
// it once per request and never caches the result, so short-lived
// tokens from the identity provider just work.
type TokenSource func(ctx context.Context) (string, error)

// Client talks to the sync endpoints.
type Client struct {
	baseURL string
	token   TokenSource
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates an API client for the given server.
func NewClient(baseURL string, token TokenSource, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// EnsureUser makes sure the server has an account row for this
// identity. Must be called before the first FetchSnapshot/PushSnapshot.
func (c *Client) EnsureUser(ctx context.Context) (*models.User, error) {
	body, err := c.do(ctx, http.MethodPost, "/user", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		User models.User `json:"user"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	return &resp.User, nil
}

// FetchSnapshot downloads the user's complete remote snapshot.
func (c *Client) FetchSnapshot(ctx context.Context) (*models.Snapshot, error) {
	body, err := c.do(ctx, http.MethodGet, "/data", nil)
	if err != nil {
		return nil, err
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snapshot, nil
}

// PushSnapshot uploads the full local snapshot. The payload is
// serialized completely before the request is sent, so an abandoned
// upload can never leave a half-built body behind.
func (c *Client) PushSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if _, err := c.do(ctx, http.MethodPut, "/data", payload); err != nil {
		return err
	}
	return nil
}

// do performs one authenticated request, fetching a fresh token first.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire token: %w", err)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, statusError(method, path, resp.StatusCode, body)
	}

	return body, nil
}

// statusError maps HTTP error responses to domain sentinels so callers
// can use errors.Is without knowing about status codes.
func statusError(method, path string, status int, body []byte) error {
	detail := problemDetail(body)
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %s: %w", method, path, detail, domain.ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %s: %w", method, path, detail, domain.ErrNotFound)
	case http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%s %s: %s: %w", method, path, detail, domain.ErrPayloadTooLarge)
	case http.StatusBadRequest:
		return fmt.Errorf("%s %s: %s: %w", method, path, detail, domain.ErrValidation)
	default:
		return fmt.Errorf("%s %s: server returned %d: %s", method, path, status, detail)
	}
}

// problemDetail pulls the human-readable detail out of an RFC 7807
// body, falling back to the raw body.
func problemDetail(body []byte) string {
	var problem struct {
		Detail string `json:"detail"`
		Title  string `json:"title"`
	}
	if err := json.Unmarshal(body, &problem); err == nil {
		if problem.Detail != "" {
			return problem.Detail
		}
		if problem.Title != "" {
			return problem.Title
		}
	}
	return string(body)
}
