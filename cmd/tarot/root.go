package main

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leekwangpil/tarot-web/internal/adapters/clipboard"
	"github.com/leekwangpil/tarot-web/internal/adapters/raster"
	"github.com/leekwangpil/tarot-web/internal/export"
	"github.com/leekwangpil/tarot-web/internal/session"
	"github.com/leekwangpil/tarot-web/pkg/client"
)

// stdRNG delegates to math/rand/v2 (auto-seeded).
type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.IntN(n) }

var (
	serverURL string
	timeout   time.Duration
	verbose   bool
	chromeURL string
)

var rootCmd = &cobra.Command{
	Use:   "tarot",
	Short: "Draw three tarot cards and get an interpretation",
	Long: `tarot draws three major arcana cards for your question and asks the
reading server to interpret them.

Run without arguments to start the interactive session.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("TAROT_SERVER_URL", "http://localhost:8080"), "reading server base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", session.DefaultTimeout, "timeout for one reading request")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	rootCmd.PersistentFlags().StringVar(&chromeURL, "chrome-url", os.Getenv("TAROT_CHROME_URL"), "DevTools URL of a running browser used for image export")

	rootCmd.AddCommand(tuiCmd, askCmd, cardsCmd, drawCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// deps holds the collaborators shared by the session commands.
type deps struct {
	logger   *slog.Logger
	runner   *session.Runner
	exporter *export.Exporter
	raster   *raster.Rasterizer
}

func newDeps() deps {
	logger := newLogger()
	api := client.New(serverURL)
	rz := raster.New(raster.Config{AssetBase: serverURL, ControlURL: chromeURL})
	cb := clipboard.NewSystem()

	return deps{
		logger:   logger,
		runner:   session.NewRunner(stdRNG{}, api, timeout, logger),
		exporter: &export.Exporter{Text: cb, Image: cb, Raster: rz},
		raster:   rz,
	}
}

func (d deps) close() {
	if err := d.raster.Close(); err != nil {
		d.logger.Warn("close browser", "error", err)
	}
}
