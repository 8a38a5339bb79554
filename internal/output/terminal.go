package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/julianshen/srcdocs/internal/docs"
)

// TerminalFormatter renders documents as styled terminal output using
// Glamour.
type TerminalFormatter struct {
	renderer *glamour.TermRenderer
}

// NewTerminalFormatter creates a TerminalFormatter with the given word wrap
// width. The style follows the terminal background.
func NewTerminalFormatter(width int) (*TerminalFormatter, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating glamour renderer: %w", err)
	}
	return &TerminalFormatter{renderer: r}, nil
}

// Format renders each document under a heading naming its path.
func (f *TerminalFormatter) Format(documents []docs.Document) ([]byte, error) {
	var b strings.Builder
	for _, d := range documents {
		md := fmt.Sprintf("# %s\n\n---\n\n%s", d.Path, d.Content)
		out, err := f.renderer.Render(md)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", d.Path, err)
		}
		b.WriteString(out)
	}
	return []byte(b.String()), nil
}
