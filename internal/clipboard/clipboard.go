package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/x/ansi"
)

// ErrUnavailable indicates no clipboard utility was found
var ErrUnavailable = errors.New("clipboard unavailable - install xclip, xsel, or wl-clipboard")

// IsAvailable returns true if clipboard operations are supported
func IsAvailable() bool {
	return !clipboard.Unsupported
}

// CopyText copies plain text to the clipboard, stripping any ANSI styling
// that leaked in from rendered panes.
func CopyText(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(ansi.Strip(text))
}

// CopyFragment copies a published HTML fragment verbatim.
func CopyFragment(fragment string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(fragment)
}
