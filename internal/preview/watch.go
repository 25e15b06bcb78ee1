package preview

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// rebuildDelay coalesces the bursts of filesystem events editors produce
// for a single save.
const rebuildDelay = 100 * time.Millisecond

// Watch rebuilds the document whenever the source file changes, until
// the context is cancelled. The file's directory is watched rather than
// the file itself, so editors that replace the file on save (write to
// temp, rename over) keep triggering rebuilds.
func (s *Server) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	var timer *time.Timer
	rebuild := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(rebuildDelay, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watch error", "error", err)

		case <-rebuild:
			s.log.Info("source changed, rebuilding", "path", abs)
			if err := s.Rebuild(ctx); err != nil {
				// A half-saved file can fail to build; keep serving the
				// previous result and wait for the next change.
				s.log.Warn("rebuild failed", "error", err)
			}
		}
	}
}
