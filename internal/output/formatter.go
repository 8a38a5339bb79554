// internal/output/formatter.go
package output

import (
	"fmt"

	"github.com/julianshen/srcdocs/internal/docs"
)

// Formatter formats generated documents for preview output.
type Formatter interface {
	Format(documents []docs.Document) ([]byte, error)
}

// New returns the formatter registered under name: "markdown", "json" or
// "pretty". width is the word-wrap width used by "pretty".
func New(name string, width int) (Formatter, error) {
	switch name {
	case "markdown":
		return NewMarkdownFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "pretty":
		return NewTerminalFormatter(width)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", name)
	}
}
