// Package notify delivers the short user-facing toasts that the bookmark
// coordinator and replay engine emit, styled for terminal output.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/confware/schedsync/internal/ports"
)

// ConsoleNotifier writes one styled line per message. Writes are
// serialized because the replay engine may notify from a goroutine
// while a foreground command is printing.
type ConsoleNotifier struct {
	out   io.Writer
	style lipgloss.Style
	mu    sync.Mutex
}

var _ ports.Notifier = (*ConsoleNotifier)(nil)

func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{
		out:   out,
		style: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	}
}

func (n *ConsoleNotifier) ShowMessage(text string) {
	if text == "" {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, n.style.Render("» ")+text)
}
