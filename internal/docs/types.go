package docs

import (
	"go.uber.org/zap"

	"github.com/julianshen/srcdocs/internal/comment"
	"github.com/julianshen/srcdocs/internal/template"
)

// Document is the final content of one output file.
type Document struct {
	Path    string
	Content string
}

// Config holds everything a run needs.
type Config struct {
	Sources  []string
	Dest     string
	Syntaxes *comment.Table
	Engine   *template.Engine
	Logger   *zap.Logger
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
