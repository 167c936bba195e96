package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events an editor produces on save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads a Source when its content directory changes.
type Watcher struct {
	source   *Source
	watcher  *fsnotify.Watcher
	debounce time.Duration

	// OnReload is called after every successful reload.
	OnReload func(*Catalog)
	// OnError is called when a reload fails.
	OnError func(error)
}

// NewWatcher watches the source's content directory.
func NewWatcher(source *Source, debounce time.Duration) (*Watcher, error) {
	if source.Dir() == "" {
		return nil, errors.New("source has no content directory")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(source.Dir()); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", source.Dir(), err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{source: source, watcher: fw, debounce: debounce}, nil
}

// Run processes events until ctx is cancelled. It always closes the
// underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	slog.Info("Watching content directory", "dir", w.source.Dir())

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			slog.Debug("Content file changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Content watcher error", "error", err)

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	if err := w.source.Reload(); err != nil {
		slog.Error("Content reload failed, keeping previous catalog", "error", err)
		if w.OnError != nil {
			w.OnError(err)
		}
		return
	}
	c := w.source.Current()
	slog.Info("Content reloaded",
		"days", len(c.Days),
		"places", len(c.Places),
		"restaurants", len(c.Restaurants),
	)
	if w.OnReload != nil {
		w.OnReload(c)
	}
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	for _, f := range Files {
		if f == name {
			return true
		}
	}
	return false
}
