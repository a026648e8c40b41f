package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/leekwangpil/tarot-web/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive reading session",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, _ []string) error {
	d := newDeps()
	defer d.close()

	saveDir, err := os.Getwd()
	if err != nil {
		return err
	}

	m := tui.New(tui.Options{
		RNG:      stdRNG{},
		Runner:   d.runner,
		Exporter: d.exporter,
		SaveDir:  saveDir,
		Logger:   d.logger,
	})
	_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
	return err
}
