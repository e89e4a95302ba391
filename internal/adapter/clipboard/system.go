// Package clipboard writes to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"

	"github.com/tejashwikalptaru/subtune/internal/ports"
)

var (
	clipboardWriteAll    = clipboard.WriteAll
	clipboardUnsupported = func() bool { return clipboard.Unsupported }
)

// ErrUnsupported is returned when no clipboard utility is installed.
var ErrUnsupported = errors.New("clipboard not available: install xclip, xsel or wl-clipboard")

// System is the OS clipboard.
type System struct{}

// NewSystem returns the OS clipboard.
func NewSystem() *System {
	return &System{}
}

// WriteAll replaces the clipboard contents with text.
func (s *System) WriteAll(text string) error {
	if clipboardUnsupported() {
		return ErrUnsupported
	}
	return clipboardWriteAll(text)
}

var _ ports.Clipboard = (*System)(nil)
