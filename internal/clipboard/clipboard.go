// Package clipboard resolves which snippet a copy intent refers to and hands
// its content to the system clipboard.
package clipboard

import (
	"errors"
	"log/slog"

	"github.com/atotto/clipboard"

	"github.com/five82/snipbox/internal/apperror"
	"github.com/five82/snipbox/internal/snippet"
)

// CopiedMessage is the acknowledgment shown after a successful copy.
const CopiedMessage = "Copied to clipboard"

// Writer puts text on a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// SystemWriter writes to the OS clipboard (pbcopy, xclip/xsel/wl-copy, or the
// Windows API).
type SystemWriter struct{}

func (SystemWriter) WriteAll(text string) error {
	if clipboard.Unsupported {
		return apperror.ClipboardUnavailable(nil)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return apperror.ClipboardUnavailable(err)
	}
	return nil
}

// Resolve picks the content a copy intent targets: the selected entry when
// idx addresses the view, else the only entry of a single-item view.
func Resolve(view []snippet.Snippet, idx int) (string, bool) {
	if idx >= 0 && idx < len(view) {
		return view[idx].Content, true
	}
	if len(view) == 1 {
		return view[0].Content, true
	}
	return "", false
}

// Copier writes resolved content and reports success. Failures are logged and
// swallowed.
type Copier struct {
	writer Writer
	logger *slog.Logger
}

func NewCopier(w Writer, logger *slog.Logger) *Copier {
	if w == nil {
		w = SystemWriter{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Copier{writer: w, logger: logger}
}

// Copy writes text and returns whether it reached the clipboard.
func (c *Copier) Copy(text string) bool {
	return c.Report(c.writer.WriteAll(text), len(text))
}

// Write performs the raw clipboard write; callers running it off the UI
// loop pass the result to Report.
func (c *Copier) Write(text string) error {
	return c.writer.WriteAll(text)
}

// Report logs the outcome of a write and reports whether it succeeded.
func (c *Copier) Report(err error, size int) bool {
	if err != nil {
		if !errors.Is(err, apperror.ErrClipboardUnavailable) {
			err = apperror.ClipboardUnavailable(err)
		}
		c.logger.Warn("clipboard copy failed",
			slog.Any("error", err),
			slog.Int("bytes", size),
		)
		return false
	}
	c.logger.Debug("copied to clipboard", slog.Int("bytes", size))
	return true
}
