// Package client is the HTTP client for the tarot reading server.
package client

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

	"github.com/leekwangpil/tarot-web/internal/domain"
)

// ReadingRequest is the payload of POST /api/tarot.
type ReadingRequest struct {
	Question string   `json:"question"`
	Cards    []string `json:"cards"`
}

// ErrEmptyReading is returned when a successful response carries no reading.
var ErrEmptyReading = errors.New("response has no reading")

// Client is the tarot server API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new API client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestReading asks the server to interpret cards for question.
func (c *Client) RequestReading(ctx context.Context, question string, cards []string) (string, error) {
	var resp struct {
		Reading *string `json:"reading"`
	}
	if err := c.post(ctx, "/api/tarot", ReadingRequest{Question: question, Cards: cards}, &resp); err != nil {
		return "", fmt.Errorf("client.RequestReading: %w", err)
	}
	if resp.Reading == nil || *resp.Reading == "" {
		return "", fmt.Errorf("client.RequestReading: %w", ErrEmptyReading)
	}
	return *resp.Reading, nil
}

// Cards fetches the server's card catalog.
func (c *Client) Cards(ctx context.Context) ([]domain.Card, error) {
	var resp struct {
		Cards []domain.Card `json:"cards"`
	}
	if err := c.get(ctx, "/api/cards", &resp); err != nil {
		return nil, fmt.Errorf("client.Cards: %w", err)
	}
	return resp.Cards, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
