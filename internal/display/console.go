// internal/display/console.go
package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/tamzrod/linkfetch/internal/status"
)

const clearScreen = "\x1b[2J\x1b[H"

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)

	lineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))
)

// Console draws the status panel on a terminal-like writer.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	clear bool
}

// NewConsole builds a console panel. When clear is set every render
// wipes the terminal first so only the latest panel is visible.
func NewConsole(out io.Writer, clear bool) *Console {
	return &Console{out: out, clear: clear}
}

func (c *Console) Render(s status.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	if c.clear {
		b.WriteString(clearScreen)
	}
	b.WriteString(RenderPanel(s))
	b.WriteByte('\n')

	if _, err := io.WriteString(c.out, b.String()); err != nil {
		return fmt.Errorf("display console: %w", err)
	}
	return nil
}

// RenderPanel returns the boxed three-line panel for s.
// Pure function of the snapshot.
func RenderPanel(s status.Snapshot) string {
	rows := make([]string, 0, status.Lines)
	for _, line := range s.Lines {
		rows = append(rows, lineStyle.Render(ansi.Truncate(line, status.LineMaxChars, "")))
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
