// Package clipboard adapts the system clipboard to the export capabilities.
package clipboard

import (
	"bytes"
	"fmt"
	"os/exec"
	"runtime"

	atotto "github.com/atotto/clipboard"

	"github.com/leekwangpil/tarot-web/internal/export"
)

// System is the desktop clipboard. Text goes through atotto/clipboard; images
// need xclip on Linux and are refused elsewhere.
type System struct {
	lookPath func(string) (string, error)
	command  func(name string, args ...string) *exec.Cmd
}

func NewSystem() *System {
	return &System{lookPath: exec.LookPath, command: exec.Command}
}

func (s *System) WriteText(text string) error {
	if atotto.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	return atotto.WriteAll(text)
}

// SupportsImages reports whether xclip is available to take a PNG.
func (s *System) SupportsImages() bool {
	_, ok := s.xclip()
	return ok
}

func (s *System) WriteImage(png []byte) error {
	bin, ok := s.xclip()
	if !ok {
		return export.ErrImageClipboardUnsupported
	}
	cmd := s.command(bin, "-selection", "clipboard", "-t", "image/png", "-i")
	cmd.Stdin = bytes.NewReader(png)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("xclip: %w: %s", err, bytes.TrimSpace(out))
	}
	return nil
}

func (s *System) xclip() (string, bool) {
	if runtime.GOOS != "linux" {
		return "", false
	}
	bin, err := s.lookPath("xclip")
	if err != nil {
		return "", false
	}
	return bin, true
}
