package http

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/leekwangpil/tarot-web/internal/app"
	"github.com/leekwangpil/tarot-web/internal/domain"
)

type Handler struct {
	svc       *app.ReadingService
	assetsDir string
	logger    *slog.Logger
}

func NewHandler(svc *app.ReadingService, assetsDir string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, assetsDir: assetsDir, logger: logger}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/api/cards", h.Cards)
	e.POST("/api/tarot", h.Reading)

	if h.assetsDir == "" {
		return
	}
	e.Static("/cards", filepath.Join(h.assetsDir, "cards"))
	bg := filepath.Join(h.assetsDir, "bg.png")
	if _, err := os.Stat(bg); err == nil {
		e.File("/bg.png", bg)
	}
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Cards(c echo.Context) error {
	return c.JSON(http.StatusOK, CardsResponse{Cards: domain.Catalog()})
}

func (h *Handler) Reading(c echo.Context) error {
	var body ReadingRequest
	if err := c.Bind(&body); err != nil {
		return h.fail(c, err)
	}

	resp, err := h.svc.Interpret(c.Request().Context(), app.ReadingRequest{
		Question: body.Question,
		Cards:    body.Cards,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, ReadingResponse{Reading: resp.Reading})
}

// fail logs err with enough context to debug and answers with the fixed
// message. Upstream details never reach the caller.
func (h *Handler) fail(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)
	ctx := c.Request().Context()

	switch {
	case errors.Is(err, domain.ErrInvalidQuestion), errors.Is(err, domain.ErrInvalidCards):
		h.logger.WarnContext(ctx, "rejected reading request", "request_id", requestID, "error", err)
	case errors.Is(err, domain.ErrMissingCredential):
		h.logger.ErrorContext(ctx, "LLM credential missing", "request_id", requestID)
	case errors.Is(err, domain.ErrUpstreamLLM):
		h.logger.ErrorContext(ctx, "upstream LLM failure", "request_id", requestID, "error", err)
	default:
		h.logger.ErrorContext(ctx, "internal error", "request_id", requestID, "error", err)
	}

	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: readingFailedMessage})
}
