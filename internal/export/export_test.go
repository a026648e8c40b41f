package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leekwangpil/tarot-web/internal/domain"
	"github.com/leekwangpil/tarot-web/internal/export"
)

type recordingClipboard struct {
	texts    []string
	images   [][]byte
	err      error
	noImages bool
}

func (c *recordingClipboard) SupportsImages() bool { return !c.noImages }

func (c *recordingClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.texts = append(c.texts, text)
	return nil
}

func (c *recordingClipboard) WriteImage(png []byte) error {
	if c.err != nil {
		return c.err
	}
	c.images = append(c.images, png)
	return nil
}

type fakeRaster struct {
	png   []byte
	err   error
	calls *int
}

func (f fakeRaster) Rasterize(_ context.Context, r export.Result) ([]byte, error) {
	if f.calls != nil {
		*f.calls++
	}
	if f.err != nil {
		return nil, f.err
	}
	return append(append([]byte{}, f.png...), []byte(r.Reading)...), nil
}

func result() export.Result {
	return export.Result{
		Cards:   []domain.Card{{ID: 0, Name: "A"}, {ID: 1, Name: "B"}, {ID: 2, Name: "C"}},
		Reading: "R",
	}
}

func TestFormatText(t *testing.T) {
	got := export.FormatText(result())
	assert.Equal(t, "[뽑힌 카드]\n1. A\n2. B\n3. C\n\n[해석 결과]\nR", got)
}

func TestFormatText_ReadingVerbatim(t *testing.T) {
	r := result()
	r.Reading = "  line one\n\n  line two  \n"
	got := export.FormatText(r)
	assert.Contains(t, got, r.Reading)
}

func TestCopyText_Idempotent(t *testing.T) {
	cb := &recordingClipboard{}
	e := &export.Exporter{Text: cb}

	n1, err := e.CopyText(result())
	require.NoError(t, err)
	n2, err := e.CopyText(result())
	require.NoError(t, err)

	assert.Equal(t, export.NoticeTextCopied, n1)
	assert.Equal(t, n1, n2)
	require.Len(t, cb.texts, 2)
	assert.Equal(t, cb.texts[0], cb.texts[1])
}

func TestCopyText_NoResult(t *testing.T) {
	cb := &recordingClipboard{}
	e := &export.Exporter{Text: cb}

	notice, err := e.CopyText(export.Result{})
	assert.ErrorIs(t, err, export.ErrNoResult)
	assert.Equal(t, export.NoticeNoResult, notice)
	assert.Empty(t, cb.texts)
}

func TestCopyText_ClipboardFailure(t *testing.T) {
	e := &export.Exporter{Text: &recordingClipboard{err: errors.New("no display")}}

	notice, err := e.CopyText(result())
	assert.Error(t, err)
	assert.Equal(t, export.NoticeCopyFailed, notice)
}

func TestCopyImage(t *testing.T) {
	cb := &recordingClipboard{}
	e := &export.Exporter{Image: cb, Raster: fakeRaster{png: []byte("PNG")}}

	notice, err := e.CopyImage(context.Background(), result())
	require.NoError(t, err)
	assert.Equal(t, export.NoticeImageCopied, notice)
	require.Len(t, cb.images, 1)
	assert.Equal(t, []byte("PNGR"), cb.images[0])
}

func TestCopyImage_Unsupported(t *testing.T) {
	e := &export.Exporter{
		Image:  &recordingClipboard{err: export.ErrImageClipboardUnsupported},
		Raster: fakeRaster{png: []byte("PNG")},
	}

	notice, err := e.CopyImage(context.Background(), result())
	assert.ErrorIs(t, err, export.ErrImageClipboardUnsupported)
	assert.Equal(t, export.NoticeImageUnsupported, notice)
}

func TestCopyImage_UnsupportedSkipsCapture(t *testing.T) {
	calls := 0
	cb := &recordingClipboard{noImages: true}
	e := &export.Exporter{Image: cb, Raster: fakeRaster{png: []byte("PNG"), calls: &calls}}

	notice, err := e.CopyImage(context.Background(), result())
	assert.ErrorIs(t, err, export.ErrImageClipboardUnsupported)
	assert.Equal(t, export.NoticeImageUnsupported, notice)
	assert.Zero(t, calls)
	assert.Empty(t, cb.images)
}

func TestCopyImage_CaptureFailure(t *testing.T) {
	cb := &recordingClipboard{}
	e := &export.Exporter{Image: cb, Raster: fakeRaster{err: errors.New("no chrome")}}

	notice, err := e.CopyImage(context.Background(), result())
	assert.Error(t, err)
	assert.Equal(t, export.NoticeCaptureFailed, notice)
	assert.Empty(t, cb.images)
}

func TestDownloadImage_Idempotent(t *testing.T) {
	dir := t.TempDir()
	e := &export.Exporter{Raster: fakeRaster{png: []byte("PNG")}}

	_, err := e.DownloadImage(context.Background(), result(), dir)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, export.FileName))
	require.NoError(t, err)

	notice, err := e.DownloadImage(context.Background(), result(), dir)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, export.FileName))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, notice, export.FileName)
}

func TestDownloadImage_NoResult(t *testing.T) {
	dir := t.TempDir()
	e := &export.Exporter{Raster: fakeRaster{png: []byte("PNG")}}

	_, err := e.DownloadImage(context.Background(), export.Result{Cards: result().Cards}, dir)
	assert.ErrorIs(t, err, export.ErrNoResult)

	_, statErr := os.Stat(filepath.Join(dir, export.FileName))
	assert.True(t, os.IsNotExist(statErr))
}
