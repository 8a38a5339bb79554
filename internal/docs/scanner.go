package docs

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/julianshen/srcdocs/internal/comment"
)

// maxLineSize bounds a single source line.
const maxLineSize = 1 << 20

// skipDirs contains directory names that are never scanned.
var skipDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// ListFiles expands sources into the files to scan. A source may be a file
// or a directory; directories are walked recursively in lexical order.
func ListFiles(sources []string) ([]string, error) {
	var files []string
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("reading source: %w", err)
		}
		if !info.IsDir() {
			files = append(files, src)
			continue
		}
		walked, err := walkFiles(src)
		if err != nil {
			return nil, fmt.Errorf("traversing %s: %w", src, err)
		}
		files = append(files, walked...)
	}
	return files, nil
}

// walkFiles lists every regular file under dir, skipping directories in
// the skipDirs set.
func walkFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// Collect extracts the fragments of every file under cfg.Sources. Files
// without a matching comment syntax are skipped. The result is stably
// sorted by fragment order, so scan order breaks ties.
func Collect(ctx context.Context, cfg Config) ([]comment.Fragment, error) {
	logger := cfg.logger()
	files, err := ListFiles(cfg.Sources)
	if err != nil {
		return nil, err
	}

	var frags []comment.Fragment
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		syntax, ok := cfg.Syntaxes.Lookup(path)
		if !ok {
			logger.Debug("skipping file without a matching extension", zap.String("path", path))
			continue
		}
		logger.Debug("reading file", zap.String("path", path))
		found, err := readFragments(path, syntax, logger)
		if err != nil {
			return nil, err
		}
		frags = append(frags, found...)
	}

	sort.SliceStable(frags, func(i, j int) bool {
		return frags[i].Order < frags[j].Order
	})
	return frags, nil
}

func readFragments(path string, syntax *comment.Syntax, logger *zap.Logger) ([]comment.Fragment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	frags, err := comment.ParseLines(scanner, syntax, path, logger)
	if err != nil {
		return nil, err
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return frags, nil
}
