// internal/output/markdown.go
package output

import (
	"fmt"
	"strings"

	"github.com/julianshen/srcdocs/internal/docs"
)

// MarkdownFormatter concatenates documents, each introduced by an HTML
// comment naming its destination path.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format renders the documents as Markdown.
func (f *MarkdownFormatter) Format(documents []docs.Document) ([]byte, error) {
	var b strings.Builder

	if len(documents) == 0 {
		b.WriteString("<!-- no documents generated -->\n")
		return []byte(b.String()), nil
	}

	for i, d := range documents {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("<!-- %s -->\n", d.Path))
		b.WriteString(d.Content)
		if !strings.HasSuffix(d.Content, "\n") {
			b.WriteString("\n")
		}
	}

	docLabel := "documents"
	if len(documents) == 1 {
		docLabel = "document"
	}
	b.WriteString(fmt.Sprintf("\n<!-- %d %s -->\n", len(documents), docLabel))

	return []byte(b.String()), nil
}
