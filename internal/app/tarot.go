package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/leekwangpil/tarot-web/internal/domain"
	"github.com/leekwangpil/tarot-web/internal/ports"
)

// MaxQuestionLen is the longest question accepted, in runes.
const MaxQuestionLen = 500

// ReadingRequest is the application-level input (no HTTP types).
type ReadingRequest struct {
	Question string
	Cards    []string
}

// ReadingResponse is the application-level output.
type ReadingResponse struct {
	Reading   string
	Model     string
	LatencyMS int64
}

// ReadingService turns a question and three drawn cards into an interpretation.
// It holds no per-request state and is safe for concurrent use.
type ReadingService struct {
	interpreter ports.Interpreter
	model       string
	logger      *slog.Logger
}

func NewReadingService(interp ports.Interpreter, model string, logger *slog.Logger) *ReadingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadingService{
		interpreter: interp,
		model:       model,
		logger:      logger,
	}
}

func (s *ReadingService) Interpret(ctx context.Context, req ReadingRequest) (ReadingResponse, error) {
	if err := validate(req); err != nil {
		return ReadingResponse{}, err
	}

	start := time.Now()
	out, err := s.interpreter.Interpret(ctx, ports.InterpretInput{
		Question: req.Question,
		Cards:    req.Cards,
	})
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return ReadingResponse{}, fmt.Errorf("interpret: %w", err)
	}

	model := interpretationModel(out.Model, s.model)
	s.logger.DebugContext(ctx, "reading generated", "model", model, "latency_ms", latency)

	return ReadingResponse{
		Reading:   out.Text,
		Model:     model,
		LatencyMS: latency,
	}, nil
}

func validate(req ReadingRequest) error {
	if strings.TrimSpace(req.Question) == "" || utf8.RuneCountInString(req.Question) > MaxQuestionLen {
		return domain.ErrInvalidQuestion
	}
	if len(req.Cards) != domain.DrawSize {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidCards, len(req.Cards))
	}
	seen := make(map[int]bool, len(req.Cards))
	for _, name := range req.Cards {
		c, ok := domain.CardByName(name)
		if !ok {
			return fmt.Errorf("%w: unknown card %q", domain.ErrInvalidCards, name)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate card %q", domain.ErrInvalidCards, name)
		}
		seen[c.ID] = true
	}
	return nil
}

func interpretationModel(fromLLM, fallback string) string {
	if fromLLM != "" {
		return fromLLM
	}
	return fallback
}
