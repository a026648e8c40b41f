package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leekwangpil/tarot-web/internal/export"
	"github.com/leekwangpil/tarot-web/internal/session"
)

type pcgRNG struct{ r *rand.Rand }

func (p pcgRNG) Intn(n int) int { return p.r.IntN(n) }

type stubInterpreter struct {
	calls int
}

func (s *stubInterpreter) RequestReading(_ context.Context, _ string, _ []string) (string, error) {
	s.calls++
	return "TEST_READING", nil
}

type memClipboard struct{ text string }

func (c *memClipboard) WriteText(text string) error { c.text = text; return nil }

func newTestModel(interp session.Interpreter, cb export.TextClipboard) Model {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rng := pcgRNG{r: rand.New(rand.NewPCG(3, 4))}
	return New(Options{
		RNG:      rng,
		Runner:   session.NewRunner(rng, interp, time.Second, logger),
		Exporter: &export.Exporter{Text: cb},
		SaveDir:  "",
		Logger:   logger,
	})
}

func typeText(m Model, s string) Model {
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return model.(Model)
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	model, cmd := m.Update(tea.KeyMsg{Type: k})
	return model.(Model), cmd
}

func TestSubmitEmptyQuestion(t *testing.T) {
	interp := &stubInterpreter{}
	m := newTestModel(interp, &memClipboard{})

	m = typeText(m, "   ")
	m, cmd := press(m, tea.KeyEnter)

	if cmd != nil {
		t.Error("expected no command for blank question")
	}
	st := m.State()
	if st.InFlight || st.HasDraw() {
		t.Errorf("blank question changed session: %+v", st)
	}
	if st.Notice != session.NoticeEmptyQuestion {
		t.Errorf("notice = %q, want %q", st.Notice, session.NoticeEmptyQuestion)
	}
}

func TestSubmitDrawsThenReads(t *testing.T) {
	interp := &stubInterpreter{}
	m := newTestModel(interp, &memClipboard{})

	m = typeText(m, "내일 시험 어떻게 될까요?")
	m, cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected request command")
	}

	st := m.State()
	if !st.InFlight {
		t.Error("expected in-flight after submit")
	}
	if len(st.Draw) != 3 {
		t.Fatalf("expected 3 cards drawn, got %d", len(st.Draw))
	}
	if !strings.Contains(m.View(), labelBusy) {
		t.Error("expected busy label while in flight")
	}
	for _, c := range st.Draw {
		if !strings.Contains(m.View(), c.Name) {
			t.Errorf("card %q not shown before reading arrives", c.Name)
		}
	}

	// A second submit while in flight is ignored.
	again, cmd2 := press(m, tea.KeyEnter)
	if cmd2 != nil {
		t.Error("expected no command while in flight")
	}
	if again.State().Draw[0] != st.Draw[0] {
		t.Error("draw replaced while in flight")
	}

	model, _ := m.Update(readingMsg{reading: "TEST_READING"})
	m = model.(Model)
	if m.State().InFlight {
		t.Error("expected in-flight cleared")
	}
	if m.State().Reading != "TEST_READING" {
		t.Errorf("reading = %q", m.State().Reading)
	}
}

func TestReadingFailureKeepsPrevious(t *testing.T) {
	m := newTestModel(&stubInterpreter{}, &memClipboard{})
	m = typeText(m, "q")
	m, _ = press(m, tea.KeyEnter)
	model, _ := m.Update(readingMsg{reading: "first"})
	m = model.(Model)

	m, _ = press(m, tea.KeyEnter)
	model, _ = m.Update(readingMsg{err: errors.New("HTTP 500")})
	m = model.(Model)

	st := m.State()
	if st.Reading != "first" {
		t.Errorf("reading = %q, want previous reading kept", st.Reading)
	}
	if st.InFlight {
		t.Error("expected in-flight cleared after failure")
	}
	if st.Notice != session.NoticeReadingFailed {
		t.Errorf("notice = %q", st.Notice)
	}
}

func TestExportDisabledBeforeReading(t *testing.T) {
	m := newTestModel(&stubInterpreter{}, &memClipboard{})
	for _, k := range []tea.KeyType{tea.KeyCtrlT, tea.KeyCtrlP, tea.KeyCtrlS} {
		if _, cmd := press(m, k); cmd != nil {
			t.Errorf("key %v: expected no export command without a reading", k)
		}
	}
}

func TestCopyTextAfterReading(t *testing.T) {
	cb := &memClipboard{}
	m := newTestModel(&stubInterpreter{}, cb)
	m = typeText(m, "q")
	m, _ = press(m, tea.KeyEnter)
	model, _ := m.Update(readingMsg{reading: "R"})
	m = model.(Model)

	m, cmd := press(m, tea.KeyCtrlT)
	if cmd == nil {
		t.Fatal("expected export command")
	}
	model, _ = m.Update(cmd())
	m = model.(Model)

	if m.State().Notice != export.NoticeTextCopied {
		t.Errorf("notice = %q", m.State().Notice)
	}
	if want := export.FormatText(m.State().Result()); cb.text != want {
		t.Errorf("clipboard = %q, want %q", cb.text, want)
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(&stubInterpreter{}, &memClipboard{})
	if _, cmd := press(m, tea.KeyCtrlC); cmd == nil {
		t.Error("expected quit command on ctrl+c")
	}
}
