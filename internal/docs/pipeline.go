package docs

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/julianshen/srcdocs/internal/template"
)

// ErrDestMissing is returned when the destination directory does not exist.
var ErrDestMissing = errors.New("destination does not exist")

// Build runs the extraction and template stages and returns the documents
// without writing them.
func Build(ctx context.Context, cfg Config) ([]Document, error) {
	frags, err := Collect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	cfg.logger().Debug("collected fragments", zap.Int("count", len(frags)))

	engine := cfg.Engine
	if engine == nil {
		engine = template.NewEngine(nil, nil, cfg.logger())
	}
	result, err := engine.Apply(frags)
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	return Assemble(result), nil
}

// Run executes the full pipeline: collect -> apply templates -> assemble ->
// write. It returns the documents that were written.
func Run(ctx context.Context, cfg Config) ([]Document, error) {
	info, err := os.Stat(cfg.Dest)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDestMissing, cfg.Dest)
	}

	documents, err := Build(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger()
	for _, doc := range documents {
		logger.Debug("writing doc file", zap.String("path", doc.Path))
	}
	if err := Write(cfg.Dest, documents); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return documents, nil
}
