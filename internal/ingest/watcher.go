package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatchConfig struct {
	Roots       []string      // directories to watch (recursive)
	InitialScan bool          // if true, report existing receipts as the first change set
	Debounce    time.Duration // coalesce rapid write/rename bursts into one change set
	Logger      *slog.Logger
}

// Watch reports sets of changed receipt paths under the roots. Each value on
// the returned channel is one debounced burst, sorted. Both channels close
// when ctx is done.
func Watch(ctx context.Context, cfg WatchConfig) (<-chan []string, <-chan error, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("no roots provided")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("ingest.watch.create_failed", "error", err)
		return nil, nil, err
	}

	var initial []string
	for _, root := range cfg.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if path != root && IsHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && AllowedExt(filepath.Ext(path)) {
				initial = append(initial, path)
			}
			return nil
		})
		if err != nil {
			logger.Error("ingest.watch.add_root_failed", "root", root, "error", err)
			_ = w.Close()
			return nil, nil, err
		}
	}

	evCh := make(chan []string, 16)
	errCh := make(chan error, 1)
	if len(initial) > 0 {
		slices.Sort(initial)
		evCh <- initial
	}

	go func() {
		defer close(errCh)
		defer close(evCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("ingest.watch.close_error", "error", err)
			}
		}()

		pending := map[string]struct{}{}
		flushCh := make(chan struct{}, 1)
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		flush := func() {
			if len(pending) == 0 {
				return
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			clear(pending)
			slices.Sort(batch)
			select {
			case evCh <- batch:
			case <-ctx.Done():
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-flushCh:
				flush()
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Op.Has(fsnotify.Create) {
					// new subdirectories are watched too; Add fails for files, which is fine
					_ = w.Add(e.Name)
				}
				if IsHidden(e.Name) || !AllowedExt(filepath.Ext(e.Name)) {
					continue
				}
				if !e.Op.Has(fsnotify.Create) && !e.Op.Has(fsnotify.Write) && !e.Op.Has(fsnotify.Rename) {
					continue
				}
				pending[e.Name] = struct{}{}
				if cfg.Debounce <= 0 {
					flush()
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(cfg.Debounce, func() {
					select {
					case flushCh <- struct{}{}:
					default:
					}
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("ingest.watch.error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}
