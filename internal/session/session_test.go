package session_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leekwangpil/tarot-web/internal/domain"
	"github.com/leekwangpil/tarot-web/internal/session"
	"github.com/leekwangpil/tarot-web/pkg/client"
)

type pcgRNG struct{ r *rand.Rand }

func (p pcgRNG) Intn(n int) int { return p.r.IntN(n) }

func newRNG() domain.RNG { return pcgRNG{r: rand.New(rand.NewPCG(1, 2))} }

type fakeInterpreter struct {
	reading  string
	err      error
	block    bool
	calls    int
	question string
	cards    []string
}

func (f *fakeInterpreter) RequestReading(ctx context.Context, question string, cards []string) (string, error) {
	f.calls++
	f.question = question
	f.cards = cards
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reading, f.err
}

func TestBegin_EmptyQuestion(t *testing.T) {
	prev := session.State{
		Question: " \n\t ",
		Draw:     domain.Draw{{ID: 1, Name: "The Magician"}, {ID: 2, Name: "The High Priestess"}, {ID: 3, Name: "The Empress"}},
		Reading:  "old",
	}

	next, err := prev.Begin(newRNG())

	require.ErrorIs(t, err, session.ErrEmptyQuestion)
	assert.Equal(t, prev.Draw, next.Draw)
	assert.Equal(t, "old", next.Reading)
	assert.False(t, next.InFlight)
	assert.Equal(t, session.NoticeEmptyQuestion, next.Notice)
}

func TestBegin_DrawsAndMarksInFlight(t *testing.T) {
	st := session.State{}.WithQuestion("내일 시험 어떻게 될까요?")

	next, err := st.Begin(newRNG())

	require.NoError(t, err)
	assert.True(t, next.InFlight)
	assert.Len(t, next.Draw, 3)
	// Receiver untouched.
	assert.False(t, st.InFlight)
	assert.Empty(t, st.Draw)
}

func TestBegin_RefusedWhileInFlight(t *testing.T) {
	st, err := session.State{Question: "q"}.Begin(newRNG())
	require.NoError(t, err)

	again, err := st.Begin(newRNG())

	require.ErrorIs(t, err, session.ErrInFlight)
	assert.Equal(t, st.Draw, again.Draw)
}

func TestRunner_Success(t *testing.T) {
	interp := &fakeInterpreter{reading: "TEST_READING"}
	r := session.NewRunner(newRNG(), interp, time.Second, nil)

	var published session.State
	r.OnDraw = func(s session.State) { published = s }

	got, err := r.Submit(context.Background(), session.State{Question: "q"})

	require.NoError(t, err)
	assert.Equal(t, "TEST_READING", got.Reading)
	assert.False(t, got.InFlight)
	assert.Equal(t, got.Draw.Names(), interp.cards)
	assert.Equal(t, "q", interp.question)

	// The draw was visible before the reading arrived.
	assert.True(t, published.InFlight)
	assert.Equal(t, got.Draw, published.Draw)
	assert.Empty(t, published.Reading)
}

func TestRunner_EmptyQuestionMakesNoRequest(t *testing.T) {
	interp := &fakeInterpreter{reading: "x"}
	r := session.NewRunner(newRNG(), interp, time.Second, nil)

	prev := session.State{Question: "   ", Reading: "kept"}
	got, err := r.Submit(context.Background(), prev)

	require.ErrorIs(t, err, session.ErrEmptyQuestion)
	assert.Zero(t, interp.calls)
	assert.Equal(t, "kept", got.Reading)
	assert.Empty(t, got.Draw)
}

func TestRunner_FailureKeepsPreviousReading(t *testing.T) {
	interp := &fakeInterpreter{err: errors.New("HTTP 500")}
	r := session.NewRunner(newRNG(), interp, time.Second, nil)

	got, err := r.Submit(context.Background(), session.State{Question: "q", Reading: "previous"})

	require.ErrorIs(t, err, session.ErrReadingFailed)
	assert.Equal(t, "previous", got.Reading)
	assert.False(t, got.InFlight)
	assert.Equal(t, session.NoticeReadingFailed, got.Notice)
	assert.Len(t, got.Draw, 3)
}

func TestRunner_EmptyReadingIsFailure(t *testing.T) {
	interp := &fakeInterpreter{reading: ""}
	r := session.NewRunner(newRNG(), interp, time.Second, nil)

	got, err := r.Submit(context.Background(), session.State{Question: "q", Reading: "previous"})

	require.ErrorIs(t, err, session.ErrReadingFailed)
	assert.Equal(t, "previous", got.Reading)
	assert.Equal(t, session.NoticeReadingFailed, got.Notice)
	assert.True(t, got.HasResult())
}

func TestRunner_ServerPayloadWithoutReading(t *testing.T) {
	for _, body := range []string{`{}`, `{"reading":null}`, `{"error":"x"}`} {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(body)) //nolint:errcheck
			}))
			defer srv.Close()

			r := session.NewRunner(newRNG(), client.New(srv.URL), time.Second, nil)
			got, err := r.Submit(context.Background(), session.State{Question: "q", Reading: "previous"})

			require.ErrorIs(t, err, session.ErrReadingFailed)
			assert.ErrorIs(t, err, client.ErrEmptyReading)
			assert.Equal(t, "previous", got.Reading)
			assert.Equal(t, session.NoticeReadingFailed, got.Notice)
			assert.False(t, got.InFlight)
			assert.True(t, got.HasResult())
		})
	}
}

func TestRunner_LogsServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"타로 해석 중 오류가 발생했습니다."}`)) //nolint:errcheck
	}))
	defer srv.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	r := session.NewRunner(newRNG(), client.New(srv.URL), time.Second, logger)

	got, err := r.Submit(context.Background(), session.State{Question: "q", Reading: "previous"})

	require.ErrorIs(t, err, session.ErrReadingFailed)
	assert.True(t, client.IsStatus(err, http.StatusInternalServerError))
	assert.Equal(t, "previous", got.Reading)
	assert.Contains(t, logs.String(), `"server_failure":true`)
}

func TestRunner_TimeoutIsFailure(t *testing.T) {
	interp := &fakeInterpreter{block: true}
	r := session.NewRunner(newRNG(), interp, 20*time.Millisecond, nil)

	got, err := r.Submit(context.Background(), session.State{Question: "q"})

	require.ErrorIs(t, err, session.ErrReadingFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, got.InFlight)
}

func TestHasResult(t *testing.T) {
	st := session.State{}
	assert.False(t, st.HasResult())
	assert.False(t, st.HasDraw())

	st, err := st.WithQuestion("q").Begin(newRNG())
	require.NoError(t, err)
	assert.True(t, st.HasDraw())
	assert.False(t, st.HasResult())

	st = st.Complete("R")
	assert.True(t, st.HasResult())
}
