package docs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long Watch waits after the last change before
// regenerating.
const DefaultDebounce = 300 * time.Millisecond

// Watch runs the pipeline once and then again after every batch of changes
// under cfg.Sources, until ctx is cancelled. Events on the files written by
// the previous run, and on their directories, are ignored so that writing
// the output does not trigger another run. Errors from the initial run are
// returned; later failures are logged and watching continues. onRun, if not
// nil, is called after every run.
func Watch(ctx context.Context, cfg Config, debounce time.Duration, onRun func([]Document, error)) error {
	logger := cfg.logger()
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	documents, err := Run(ctx, cfg)
	if onRun != nil {
		onRun(documents, err)
	}
	if err != nil {
		return err
	}
	outputs := outputPaths(cfg.Dest, documents)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, src := range cfg.Sources {
		if err := addWatches(watcher, src); err != nil {
			return err
		}
	}
	logger.Info("watching for changes", zap.Strings("sources", cfg.Sources))

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if abs, err := filepath.Abs(event.Name); err != nil || outputs[abs] {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatches(watcher, event.Name); err != nil {
						logger.Warn("cannot watch new directory", zap.String("path", event.Name), zap.Error(err))
					}
				}
			}
			logger.Debug("source changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			documents, err := Run(ctx, cfg)
			if onRun != nil {
				onRun(documents, err)
			}
			if err != nil {
				logger.Error("regenerating documentation failed", zap.Error(err))
				continue
			}
			for p := range outputPaths(cfg.Dest, documents) {
				outputs[p] = true
			}
			logger.Info("regenerated documentation", zap.Int("documents", len(documents)))
		}
	}
}

// outputPaths returns the absolute paths of the written documents and of
// every directory between them and dest.
func outputPaths(dest string, documents []Document) map[string]bool {
	out := map[string]bool{}
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return out
	}
	for _, doc := range documents {
		p := filepath.Join(destAbs, filepath.FromSlash(doc.Path))
		for p != destAbs && p != filepath.Dir(p) {
			out[p] = true
			p = filepath.Dir(p)
		}
	}
	return out
}

// addWatches registers root and, when it is a directory, every directory
// below it. Plain files are watched through their parent directory.
func addWatches(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
