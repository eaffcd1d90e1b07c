// Package notify surfaces non-blocking user notices on the console.
package notify

import (
	"fmt"
	"io"

	"github.com/totodo-app/totodo/internal/domain"
)

// Console implements domain.Notifier by printing to a writer (normally
// stderr, so notices never mix with command output).
type Console struct {
	w io.Writer
}

// NewConsole creates a Console notifier writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Info reports a normal notice.
func (c *Console) Info(title, body string) {
	_, _ = fmt.Fprintf(c.w, "%s: %s\n", title, body)
}

// Warn reports a failure notice.
func (c *Console) Warn(title, body string) {
	_, _ = fmt.Fprintf(c.w, "warning: %s: %s\n", title, body)
}

// Ensure Console implements Notifier.
var _ domain.Notifier = (*Console)(nil)
