// Package export turns a finished reading into clipboard text, a clipboard
// image or a PNG file.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leekwangpil/tarot-web/internal/domain"
)

// FileName is the name of the downloaded image.
const FileName = "tarot-reading.png"

// User-facing notices.
const (
	NoticeTextCopied       = "타로 해석 결과가 복사되었습니다!"
	NoticeImageCopied      = "이미지로 복사되었습니다!"
	NoticeImageUnsupported = "복사 실패 😢 브라우저가 이미지를 지원하지 않아요."
	NoticeCaptureFailed    = "이미지 캡처 중 오류가 발생했습니다."
	NoticeCopyFailed       = "복사에 실패했습니다."
	NoticeSaved            = "이미지를 저장했습니다: "
	NoticeNoResult         = "먼저 타로 카드를 뽑아주세요."
)

var (
	ErrNoResult                  = errors.New("no reading to export")
	ErrImageClipboardUnsupported = errors.New("clipboard does not accept images")
)

// Result is the exportable region: the drawn cards and their reading.
type Result struct {
	Cards   []domain.Card
	Reading string
}

func (r Result) valid() bool {
	return len(r.Cards) > 0 && r.Reading != ""
}

// FormatText renders r as a plain-text block, cards numbered in draw order
// followed by the reading verbatim.
func FormatText(r Result) string {
	var b strings.Builder
	b.WriteString("[뽑힌 카드]\n")
	for i, c := range r.Cards {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, c.Name)
	}
	b.WriteString("\n\n[해석 결과]\n")
	b.WriteString(r.Reading)
	return b.String()
}

// TextClipboard places plain text on the system clipboard.
type TextClipboard interface {
	WriteText(text string) error
}

// ImageClipboard places a PNG on the system clipboard. SupportsImages is
// checked before anything is rendered; WriteImage may still return
// ErrImageClipboardUnsupported.
type ImageClipboard interface {
	SupportsImages() bool
	WriteImage(png []byte) error
}

// Rasterizer renders the result region into a PNG.
type Rasterizer interface {
	Rasterize(ctx context.Context, r Result) ([]byte, error)
}

// Exporter runs the three export actions. Every action returns the notice to
// show; errors are returned for logging and never change the session.
type Exporter struct {
	Text   TextClipboard
	Image  ImageClipboard
	Raster Rasterizer
}

// CopyText copies the formatted reading to the clipboard.
func (e *Exporter) CopyText(r Result) (string, error) {
	if !r.valid() {
		return NoticeNoResult, ErrNoResult
	}
	if err := e.Text.WriteText(FormatText(r)); err != nil {
		return NoticeCopyFailed, fmt.Errorf("copy text: %w", err)
	}
	return NoticeTextCopied, nil
}

// CopyImage rasterizes the result and copies the bitmap to the clipboard.
func (e *Exporter) CopyImage(ctx context.Context, r Result) (string, error) {
	if !r.valid() {
		return NoticeNoResult, ErrNoResult
	}
	if e.Image == nil || !e.Image.SupportsImages() {
		return NoticeImageUnsupported, ErrImageClipboardUnsupported
	}
	png, err := e.rasterize(ctx, r)
	if err != nil {
		return NoticeCaptureFailed, err
	}
	if err := e.Image.WriteImage(png); err != nil {
		if errors.Is(err, ErrImageClipboardUnsupported) {
			return NoticeImageUnsupported, err
		}
		return NoticeCopyFailed, fmt.Errorf("copy image: %w", err)
	}
	return NoticeImageCopied, nil
}

// DownloadImage rasterizes the result and writes it to dir/FileName,
// replacing an earlier download.
func (e *Exporter) DownloadImage(ctx context.Context, r Result, dir string) (string, error) {
	if !r.valid() {
		return NoticeNoResult, ErrNoResult
	}
	png, err := e.rasterize(ctx, r)
	if err != nil {
		return NoticeCaptureFailed, err
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return NoticeCaptureFailed, fmt.Errorf("save image: %w", err)
	}
	return NoticeSaved + path, nil
}

func (e *Exporter) rasterize(ctx context.Context, r Result) ([]byte, error) {
	if e.Raster == nil {
		return nil, errors.New("no rasterizer configured")
	}
	png, err := e.Raster.Rasterize(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	return png, nil
}
