package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Change is a new version of the watched file, or the error hit reading it.
type Change struct {
	Text string
	Err  error
}

// Watcher reports edits of one program file. It watches the file's
// directory so editors that save by rename are still seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	changes  chan Change
	stop     chan struct{}
	done     chan struct{}
}

// NewWatcher starts watching path until ctx is cancelled or Close is called.
func NewWatcher(ctx context.Context, path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	w := &Watcher{
		watcher:  fw,
		path:     abs,
		debounce: 150 * time.Millisecond,
		changes:  make(chan Change, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

// Changes delivers debounced file contents. It is closed when the watcher
// stops.
func (w *Watcher) Changes() <-chan Change { return w.changes }

// Close stops the watcher and waits for its loop to exit.
func (w *Watcher) Close() error {
	close(w.stop)
	<-w.done
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer close(w.changes)

	ticker := time.NewTicker(w.debounce / 3)
	defer ticker.Stop()
	var pending time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.WithFields(log.Fields{"path": event.Name, "op": event.Op.String()}).Debug("program file event")
			pending = time.Now()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("watcher error")

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < w.debounce {
				continue
			}
			pending = time.Time{}
			data, err := os.ReadFile(w.path)
			if os.IsNotExist(err) {
				// Renamed away mid-save; the Create that follows brings it back.
				continue
			}
			select {
			case w.changes <- Change{Text: string(data), Err: err}:
			case <-ctx.Done():
				return
			case <-w.stop:
				return
			}
		}
	}
}
