// Package gemini implements the interpreter on Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/genai"

	"github.com/leekwangpil/tarot-web/internal/domain"
	"github.com/leekwangpil/tarot-web/internal/ports"
	"github.com/leekwangpil/tarot-web/internal/prompt"
)

// Client implements ports.Interpreter via the Gemini generateContent API.
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

// NewClient creates a Gemini interpreter. baseURL may be empty to use the
// public endpoint.
func NewClient(ctx context.Context, httpClient *http.Client, apiKey, baseURL, model string, temperature float64, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, domain.ErrMissingCredential
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		client:      client,
		model:       model,
		temperature: float32(temperature),
		logger:      logger,
	}, nil
}

func (c *Client) Interpret(ctx context.Context, in ports.InterpretInput) (ports.InterpretOutput, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt.User(in.Question, in.Cards), genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       genai.Ptr(c.temperature),
	})
	if err != nil {
		c.logger.WarnContext(ctx, "gemini call failed", "model", c.model, "error", err)
		return ports.InterpretOutput{}, fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
	}

	text := resp.Text()
	if text == "" {
		return ports.InterpretOutput{}, fmt.Errorf("%w: empty candidate", domain.ErrUpstreamLLM)
	}

	model := resp.ModelVersion
	if model == "" {
		model = c.model
	}
	return ports.InterpretOutput{Text: text, Model: model}, nil
}
