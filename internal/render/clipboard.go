package render

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"
)

// CopyMethod reports how text reached the clipboard.
type CopyMethod string

const (
	CopySystem CopyMethod = "system clipboard"
	CopyOSC52  CopyMethod = "terminal (OSC 52)"
)

// Copier places text on the clipboard.
type Copier interface {
	Copy(text string) (CopyMethod, error)
}

// SystemCopier uses the platform clipboard utility and falls back to the
// OSC 52 escape sequence when none is installed (e.g. over SSH).
type SystemCopier struct{}

// Copy writes text to the clipboard.
func (SystemCopier) Copy(text string) (CopyMethod, error) {
	if !clipboard.Unsupported {
		if err := clipboard.WriteAll(text); err == nil {
			return CopySystem, nil
		}
	}

	out := termenv.NewOutput(os.Stdout)
	if out.Profile == termenv.Ascii {
		return "", fmt.Errorf("no clipboard available")
	}
	out.Copy(text)
	return CopyOSC52, nil
}
