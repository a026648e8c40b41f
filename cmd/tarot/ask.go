package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leekwangpil/tarot-web/internal/domain"
	"github.com/leekwangpil/tarot-web/internal/session"
)

var (
	askCopy    bool
	askSaveDir string
)

var askCmd = &cobra.Command{
	Use:   "ask QUESTION",
	Short: "Draw three cards and print the interpretation",
	Example: `  tarot ask "내일 시험 어떻게 될까요?"
  tarot ask --copy --save . "이직해도 될까요?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := newDeps()
		defer d.close()

		out := cmd.OutOrStdout()
		d.runner.OnDraw = func(st session.State) {
			printDraw(out, st.Draw)
		}

		st, err := d.runner.Submit(cmd.Context(), session.State{Question: strings.Join(args, " ")})
		if err != nil {
			if st.Notice != "" {
				color.New(color.FgYellow).Fprintln(out, st.Notice)
			}
			return err
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, renderReading(st.Reading))

		if askCopy {
			notice, err := d.exporter.CopyText(st.Result())
			color.New(color.FgYellow).Fprintln(out, notice)
			if err != nil {
				d.logger.Warn("copy text", "error", err)
			}
		}
		if askSaveDir != "" {
			notice, err := d.exporter.DownloadImage(cmd.Context(), st.Result(), askSaveDir)
			color.New(color.FgYellow).Fprintln(out, notice)
			if err != nil {
				d.logger.Warn("save image", "error", err)
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&askCopy, "copy", false, "copy the reading to the clipboard as text")
	askCmd.Flags().StringVar(&askSaveDir, "save", "", "save the reading as an image into this directory")
}

func printDraw(w io.Writer, draw domain.Draw) {
	title := color.New(color.FgMagenta, color.Bold)
	title.Fprintln(w, "✨ 타로 리딩 결과")
	for i, c := range draw {
		fmt.Fprintf(w, "  %s %s\n", color.CyanString("%d.", i+1), c.Name)
	}
}

func renderReading(reading string) string {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width-4))
	if err != nil {
		return reading
	}
	out, err := r.Render(reading)
	if err != nil {
		return reading
	}
	return strings.TrimRight(out, "\n")
}
