// internal/output/json.go
package output

import (
	"encoding/json"

	"github.com/julianshen/srcdocs/internal/docs"
)

// JSONFormatter outputs documents as a JSON array.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonDocument struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Format marshals the documents as indented JSON.
func (f *JSONFormatter) Format(documents []docs.Document) ([]byte, error) {
	out := make([]jsonDocument, 0, len(documents))
	for _, d := range documents {
		out = append(out, jsonDocument{Path: d.Path, Content: d.Content})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
