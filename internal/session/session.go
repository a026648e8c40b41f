// Package session holds the client-side reading state and the transitions
// that move it from question to interpretation.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/leekwangpil/tarot-web/internal/domain"
	"github.com/leekwangpil/tarot-web/internal/export"
	"github.com/leekwangpil/tarot-web/pkg/client"
)

// User-facing notices.
const (
	NoticeEmptyQuestion = "질문을 입력해주세요."
	NoticeReadingFailed = "타로 해석 중 오류가 발생했습니다."
)

// DefaultTimeout bounds one interpretation round trip.
const DefaultTimeout = 30 * time.Second

var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrInFlight      = errors.New("a reading is already in progress")
	ErrReadingFailed = errors.New("reading failed")

	errEmptyReading = errors.New("empty reading")
)

// State is one snapshot of a reading session. Transitions return a new
// State and never modify the receiver.
type State struct {
	Question string
	Draw     domain.Draw
	Reading  string
	InFlight bool
	// Notice is the last message to show the user, if any.
	Notice string
}

// WithQuestion records an edit of the question text.
func (s State) WithQuestion(q string) State {
	s.Question = q
	return s
}

// Begin starts a submission: it draws three new cards and marks the session
// in flight. Blank questions and submissions while in flight are refused and
// leave the draw and reading as they were.
func (s State) Begin(rng domain.RNG) (State, error) {
	if s.InFlight {
		return s, ErrInFlight
	}
	if strings.TrimSpace(s.Question) == "" {
		s.Notice = NoticeEmptyQuestion
		return s, ErrEmptyQuestion
	}
	s.Draw = domain.DrawThree(rng)
	s.InFlight = true
	s.Notice = ""
	return s, nil
}

// Complete stores a successful interpretation.
func (s State) Complete(reading string) State {
	s.Reading = reading
	s.InFlight = false
	s.Notice = ""
	return s
}

// Fail ends a submission that did not produce a reading. The previous
// reading stays in place.
func (s State) Fail() State {
	s.InFlight = false
	s.Notice = NoticeReadingFailed
	return s
}

// HasDraw reports whether a result region exists to show.
func (s State) HasDraw() bool {
	return len(s.Draw) > 0
}

// HasResult reports whether both a draw and a reading exist, which is what
// the export actions need.
func (s State) HasResult() bool {
	return len(s.Draw) == domain.DrawSize && s.Reading != ""
}

// Result is the exportable region of the current state.
func (s State) Result() export.Result {
	return export.Result{Cards: s.Draw, Reading: s.Reading}
}

// Interpreter fetches an interpretation for a question and card names.
type Interpreter interface {
	RequestReading(ctx context.Context, question string, cards []string) (string, error)
}

// Runner performs complete submissions for callers without an event loop.
type Runner struct {
	rng         domain.RNG
	interpreter Interpreter
	timeout     time.Duration
	logger      *slog.Logger

	// OnDraw, if set, observes the state right after the cards are drawn and
	// before the interpretation arrives.
	OnDraw func(State)
}

func NewRunner(rng domain.RNG, interp Interpreter, timeout time.Duration, logger *slog.Logger) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{rng: rng, interpreter: interp, timeout: timeout, logger: logger}
}

// Submit runs one round trip starting from st. The returned state is never in
// flight. On failure the error wraps ErrEmptyQuestion, ErrInFlight or
// ErrReadingFailed.
func (r *Runner) Submit(ctx context.Context, st State) (State, error) {
	next, err := st.Begin(r.rng)
	if err != nil {
		return next, err
	}
	if r.OnDraw != nil {
		r.OnDraw(next)
	}

	reading, err := r.Request(ctx, next)
	if err != nil {
		return next.Fail(), err
	}
	return next.Complete(reading), nil
}

// Request issues the interpretation call for an in-flight state.
func (r *Runner) Request(ctx context.Context, st State) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reading, err := r.interpreter.RequestReading(ctx, st.Question, st.Draw.Names())
	if err == nil && reading == "" {
		err = errEmptyReading
	}
	if err != nil {
		attrs := []any{"cards", st.Draw.Names(), "error", err}
		if client.IsStatus(err, http.StatusInternalServerError) {
			attrs = append(attrs, "server_failure", true)
		}
		r.logger.WarnContext(ctx, "reading request failed", attrs...)
		return "", fmt.Errorf("%w: %w", ErrReadingFailed, err)
	}
	return reading, nil
}
