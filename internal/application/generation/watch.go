package generation

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/pkg/errors"
)

// DefaultDebounce collapses bursts of write events from editors and copy
// tools into one regeneration.
const DefaultDebounce = 300 * time.Millisecond

// Watch calls regenerate whenever the file at path is written, created or
// renamed into place, until ctx is done. Runs never overlap: events arriving
// during a run are folded into the next one. Errors from regenerate are
// logged and watching continues.
func Watch(ctx context.Context, path string, debounce time.Duration, logger logging.Logger, regenerate func(context.Context) error) error {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeFatalIO, "create file watcher")
	}
	defer w.Close()

	// watch the directory so atomic replace-by-rename is seen
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeFatalIO, "resolve %q", path)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, errors.ErrCodeFatalIO, "watch %q", filepath.Dir(abs))
	}
	logger.Info("watching corpus", logging.String("path", abs))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)
		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", logging.Err(werr))
		case <-timer.C:
			logger.Info("corpus changed, regenerating", logging.String("path", abs))
			if rerr := regenerate(ctx); rerr != nil {
				logger.Error("regeneration failed", logging.Err(rerr))
			}
		}
	}
}

//Personal.AI order the ending
