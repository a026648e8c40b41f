// Package openai talks to OpenAI-compatible chat/completions endpoints
// (OpenAI itself, OpenRouter, local gateways).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leekwangpil/tarot-web/internal/domain"
	"github.com/leekwangpil/tarot-web/internal/ports"
	"github.com/leekwangpil/tarot-web/internal/prompt"
)

// maxErrorBody bounds how much of an upstream error body is kept for logs.
const maxErrorBody = 4 << 10

// Client implements ports.Interpreter via a chat/completions API.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	logger      *slog.Logger
}

func NewClient(httpClient *http.Client, apiKey, baseURL, model string, temperature float64, logger *slog.Logger) *Client {
	return &Client{
		httpClient:  httpClient,
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// chatRequest / chatResponse mirror the OpenAI-compatible API shapes.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Interpret(ctx context.Context, in ports.InterpretInput) (ports.InterpretOutput, error) {
	if c.apiKey == "" {
		return ports.InterpretOutput{}, domain.ErrMissingCredential
	}

	content, model, err := c.callLLM(ctx, prompt.System, prompt.User(in.Question, in.Cards))
	if err != nil {
		c.logger.WarnContext(ctx, "completion failed", "model", c.model, "error", err)
		return ports.InterpretOutput{}, fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
	}

	if model == "" {
		model = c.model
	}
	return ports.InterpretOutput{Text: content, Model: model}, nil
}

func (c *Client) callLLM(ctx context.Context, system, user string) (string, string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", "", fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(snippet))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", "", fmt.Errorf("decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", "", fmt.Errorf("no choices in response")
	}
	if chatResp.Choices[0].Message.Content == "" {
		return "", "", fmt.Errorf("empty completion")
	}

	return chatResp.Choices[0].Message.Content, chatResp.Model, nil
}
