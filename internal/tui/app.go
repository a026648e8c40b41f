// Package tui is the interactive terminal reading session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/leekwangpil/tarot-web/internal/domain"
	"github.com/leekwangpil/tarot-web/internal/export"
	"github.com/leekwangpil/tarot-web/internal/session"
)

const (
	labelDraw    = "🔮 타로 카드 뽑기"
	labelBusy    = "🔮 타로 해석 중..."
	defaultWidth = 80
)

// readingMsg carries the result of an interpretation request.
type readingMsg struct {
	reading string
	err     error
}

// exportMsg carries the outcome of an export action.
type exportMsg struct {
	notice string
	err    error
}

// Model is the root Bubbletea model. All session changes happen in Update.
type Model struct {
	state    session.State
	rng      domain.RNG
	runner   *session.Runner
	exporter *export.Exporter
	saveDir  string
	logger   *slog.Logger

	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	width    int
}

// Options wires the model's collaborators.
type Options struct {
	RNG      domain.RNG
	Runner   *session.Runner
	Exporter *export.Exporter
	// SaveDir receives downloaded images.
	SaveDir string
	Logger  *slog.Logger
}

func New(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "궁금한 점을 입력해주세요..."
	ti.CharLimit = 500
	ti.Width = defaultWidth - 4
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := Model{
		rng:      opts.RNG,
		runner:   opts.Runner,
		exporter: opts.Exporter,
		saveDir:  opts.SaveDir,
		logger:   logger,
		input:    ti,
		spinner:  sp,
		width:    defaultWidth,
	}
	m.renderer = newRenderer(defaultWidth)
	return m
}

// State exposes the current session snapshot.
func (m Model) State() session.State { return m.state }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		m.renderer = newRenderer(max(msg.Width-8, 20))
		return m, nil

	case spinner.TickMsg:
		if !m.state.InFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case readingMsg:
		if msg.err != nil {
			m.logger.Warn("reading failed", "error", msg.err)
			m.state = m.state.Fail()
		} else {
			m.state = m.state.Complete(msg.reading)
		}
		return m, nil

	case exportMsg:
		if msg.err != nil {
			m.logger.Warn("export failed", "error", msg.err)
		}
		m.state.Notice = msg.notice
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "ctrl+t":
			return m, m.exportCmd(func(ctx context.Context, r export.Result) (string, error) {
				return m.exporter.CopyText(r)
			})
		case "ctrl+p":
			return m, m.exportCmd(m.exporter.CopyImage)
		case "ctrl+s":
			return m, m.exportCmd(func(ctx context.Context, r export.Result) (string, error) {
				return m.exporter.DownloadImage(ctx, r, m.saveDir)
			})
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state = m.state.WithQuestion(m.input.Value())
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	next, err := m.state.WithQuestion(m.input.Value()).Begin(m.rng)
	if errors.Is(err, session.ErrInFlight) {
		return m, nil
	}
	m.state = next
	if err != nil {
		return m, nil
	}

	runner := m.runner
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		reading, err := runner.Request(context.Background(), next)
		return readingMsg{reading: reading, err: err}
	})
}

// exportCmd runs an export action if a reading exists; otherwise the
// controls are disabled and nothing happens.
func (m Model) exportCmd(action func(context.Context, export.Result) (string, error)) tea.Cmd {
	if m.exporter == nil || !m.state.HasResult() {
		return nil
	}
	res := m.state.Result()
	return func() tea.Msg {
		notice, err := action(context.Background(), res)
		return exportMsg{notice: notice, err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("✨ 타로 카드 리딩"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.state.InFlight {
		b.WriteString(busyButtonStyle.Render(m.spinner.View() + " " + labelBusy))
	} else {
		b.WriteString(buttonStyle.Render(labelDraw))
	}
	b.WriteString("\n")

	if m.state.HasDraw() {
		b.WriteString("\n")
		b.WriteString(regionStyle.Render(m.renderResult()))
		b.WriteString("\n")
	}

	if m.state.Notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.state.Notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "enter 뽑기 · esc 종료"
	if m.state.HasResult() {
		help = "enter 다시 뽑기 · ctrl+t 텍스트 복사 · ctrl+p 이미지 복사 · ctrl+s 이미지 저장 · esc 종료"
	}
	b.WriteString(dimStyle.Render(help))
	return b.String()
}

func (m Model) renderResult() string {
	boxes := make([]string, len(m.state.Draw))
	for i, c := range m.state.Draw {
		boxes[i] = cardStyle.Render(cardNumberStyle.Render(fmt.Sprintf("%d", i+1)) + "\n\n" + c.Name)
	}
	out := "✨ 타로 리딩 결과\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, boxes...)

	if m.state.Reading != "" {
		out += "\n\n" + m.renderReading(m.state.Reading)
	}
	return out
}

func (m Model) renderReading(reading string) string {
	if m.renderer == nil {
		return reading
	}
	rendered, err := m.renderer.Render(reading)
	if err != nil {
		return reading
	}
	return strings.TrimRight(rendered, "\n")
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}
