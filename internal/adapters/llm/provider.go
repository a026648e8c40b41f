// Package llm selects the interpreter implementation for the configured provider.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/leekwangpil/tarot-web/internal/adapters/llm/gemini"
	"github.com/leekwangpil/tarot-web/internal/adapters/llm/openai"
	"github.com/leekwangpil/tarot-web/internal/config"
	"github.com/leekwangpil/tarot-web/internal/domain"
	"github.com/leekwangpil/tarot-web/internal/ports"
)

// New builds the interpreter for cfg. When no credential is configured the
// returned interpreter fails every call with domain.ErrMissingCredential, so
// the server still starts and answers with a boundary error.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.Interpreter, error) {
	httpClient := &http.Client{Timeout: cfg.LLMTimeout}

	if cfg.LLMAPIKey == "" {
		logger.Warn("no LLM credential configured; readings will fail", "provider", cfg.LLMProvider)
		return Unavailable(domain.ErrMissingCredential), nil
	}

	switch cfg.LLMProvider {
	case config.ProviderOpenAI, config.ProviderOpenRouter:
		return openai.NewClient(httpClient, cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMTemperature, logger), nil
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, httpClient, cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMTemperature, logger)
		if err != nil {
			if errors.Is(err, domain.ErrMissingCredential) {
				return Unavailable(err), nil
			}
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}

// Unavailable returns an interpreter that always fails with err.
func Unavailable(err error) ports.Interpreter {
	return ports.InterpreterFunc(func(context.Context, ports.InterpretInput) (ports.InterpretOutput, error) {
		return ports.InterpretOutput{}, err
	})
}
