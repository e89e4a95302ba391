package app

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/tejashwikalptaru/subtune/internal/domain"
)

// WarnIfNeedsEdit tells the user when the server settings are still the
// defaults. On an interactive terminal it waits for Enter before continuing.
// It reports whether a warning was printed.
func WarnIfNeedsEdit(cfg domain.Config, path string, in io.Reader, out io.Writer) bool {
	if !cfg.NeedsEdit() {
		return false
	}

	fmt.Fprintln(out, "Config not found or using defaults!")
	fmt.Fprintf(out, "Please edit the config file at: %s\n", path)
	if !isTerminal(in) {
		return true
	}

	fmt.Fprintln(out, "Press Enter to continue anyway...")
	_, _ = bufio.NewReader(in).ReadString('\n')
	return true
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
