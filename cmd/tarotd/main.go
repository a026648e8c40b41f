package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	httpadapter "github.com/leekwangpil/tarot-web/internal/adapters/http"
	"github.com/leekwangpil/tarot-web/internal/adapters/llm"
	"github.com/leekwangpil/tarot-web/internal/app"
	"github.com/leekwangpil/tarot-web/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interpreter, err := llm.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create interpreter", "provider", cfg.LLMProvider, "error", err)
		os.Exit(1)
	}

	svc := app.NewReadingService(interpreter, cfg.LLMModel, logger)
	e := httpadapter.NewServer(httpadapter.NewHandler(svc, cfg.AssetsDir, logger), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "provider", cfg.LLMProvider, "model", cfg.LLMModel)
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
