package docs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrUnsafePath is returned for a document path that is absolute or leaves
// the destination directory.
var ErrUnsafePath = errors.New("document path escapes destination")

// Write stores each document under dest, creating parent directories as
// needed. Every path is checked before anything is written.
func Write(dest string, documents []Document) error {
	for _, doc := range documents {
		if !filepath.IsLocal(filepath.FromSlash(doc.Path)) {
			return fmt.Errorf("%w: %q", ErrUnsafePath, doc.Path)
		}
	}
	for _, doc := range documents {
		path := filepath.Join(dest, filepath.FromSlash(doc.Path))
		if err := writeDoc(path, doc.Content); err != nil {
			return err
		}
	}
	return nil
}

// writeDoc creates parent directories and writes content to the given path.
func writeDoc(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
