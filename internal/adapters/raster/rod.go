// Package raster renders the reading region in headless Chromium and
// captures it as a PNG.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/leekwangpil/tarot-web/internal/export"
)

// Config controls the browser used for capture.
type Config struct {
	// AssetBase is prefixed to card image paths, usually the server URL.
	AssetBase string
	// ControlURL connects to an already running browser instead of launching one.
	ControlURL string
	// Bin overrides the browser binary; empty lets rod find or download one.
	Bin string
	// Timeout bounds a single capture.
	Timeout time.Duration
}

// Rasterizer is safe for concurrent use; the browser is started on first use.
type Rasterizer struct {
	cfg Config

	mu      sync.Mutex
	browser *rod.Browser
	launch  *launcher.Launcher
}

func New(cfg Config) *Rasterizer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Rasterizer{cfg: cfg}
}

// Rasterize renders r and returns the #capture element as PNG.
func (r *Rasterizer) Rasterize(ctx context.Context, res export.Result) ([]byte, error) {
	html, err := RenderHTML(res, r.cfg.AssetBase)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	browser, err := r.ensureBrowser(ctx)
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close() //nolint:errcheck // best-effort cleanup

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}
	el, err := page.Element("#capture")
	if err != nil {
		return nil, fmt.Errorf("find capture region: %w", err)
	}
	png, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return png, nil
}

// ensureBrowser launches or connects on first use. ctx bounds the launch,
// including a browser download, and the connect; the kept browser is not tied
// to it.
func (r *Rasterizer) ensureBrowser(ctx context.Context) (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	controlURL := r.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Context(ctx).Headless(true)
		if r.cfg.Bin != "" {
			l = l.Bin(r.cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		r.launch = l
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		if r.launch != nil {
			r.launch.Kill()
			r.launch = nil
		}
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	r.browser = browser.Context(context.Background())
	return r.browser, nil
}

// Close shuts down a browser this Rasterizer launched.
func (r *Rasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if r.launch != nil {
		r.launch.Cleanup()
	}
	r.browser, r.launch = nil, nil
	return err
}

type cardView struct {
	Name  string
	Image string
}

type pageData struct {
	Cards   []cardView
	Reading string
}

// RenderHTML builds the standalone page captured by Rasterize.
func RenderHTML(res export.Result, assetBase string) (string, error) {
	assetBase = strings.TrimRight(assetBase, "/")
	data := pageData{Reading: res.Reading}
	for _, c := range res.Cards {
		img := c.Image
		if assetBase != "" && strings.HasPrefix(img, "/") {
			img = assetBase + img
		}
		data.Cards = append(data.Cards, cardView{Name: c.Name, Image: img})
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render capture page: %w", err)
	}
	return buf.String(), nil
}

var pageTmpl = template.Must(template.New("capture").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<style>
  body { margin: 0; background: #101020; font-family: sans-serif; }
  #capture { width: 672px; padding: 40px; background: #101020; }
  .panel { background: rgba(255,255,255,0.92); border-radius: 16px; padding: 32px; color: #000; }
  h2 { text-align: center; margin: 0 0 32px; }
  .cards { display: flex; justify-content: center; gap: 24px; margin-bottom: 40px; }
  .card { width: 128px; text-align: center; }
  .card img { width: 100%; border-radius: 8px; }
  .reading { font-size: 18px; line-height: 32px; white-space: pre-line; }
</style>
</head>
<body>
<div id="capture">
  <div class="panel">
    <h2>✨ 타로 리딩 결과</h2>
    <div class="cards">
      {{- range .Cards}}
      <div class="card"><img src="{{.Image}}" alt="{{.Name}}"><p>{{.Name}}</p></div>
      {{- end}}
    </div>
    {{- if .Reading}}
    <div class="reading">{{.Reading}}</div>
    {{- end}}
  </div>
</div>
</body>
</html>
`))
