// Package watch reloads the corpus when the archive on disk changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driving"
	"github.com/custodia-labs/chatsift/internal/logger"
)

// Defaults for Options.
const (
	DefaultDebounce    = 500 * time.Millisecond
	DefaultMinInterval = 5 * time.Second
)

// Options tunes reload behaviour.
type Options struct {
	// Debounce is the quiet period after the last change before reloading.
	Debounce time.Duration

	// MinInterval is the minimum time between reloads. Zero disables limiting.
	MinInterval time.Duration

	// OnReload is called after every reload attempt. Optional.
	OnReload func(rec *domain.ArchiveRecord, err error)
}

// Watcher reloads an archive through the ingest service whenever it changes.
// Exports are usually replaced by rename, so the parent directory is watched
// and events are filtered to the archive path.
type Watcher struct {
	path   string
	dir    bool
	ingest driving.IngestService
	opts   Options

	watcher *fsnotify.Watcher
	limiter *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	timer *time.Timer

	reloads atomic.Int64
}

// New creates a watcher for the archive at path. Call Start to begin watching.
func New(path string, ingest driving.IngestService, opts Options) (*Watcher, error) {
	if path == "" {
		return nil, domain.ErrNoArchive
	}
	if ingest == nil {
		return nil, errors.New("watch: ingest service is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", path, err)
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}

	return &Watcher{
		path:    abs,
		dir:     st.IsDir(),
		ingest:  ingest,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// Path returns the watched archive path.
func (w *Watcher) Path() string {
	return w.path
}

// Reloads returns the number of completed reload attempts.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

// Start begins watching. The watcher stops when ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	target := filepath.Dir(w.path)
	if w.dir {
		target = w.path
	}
	if err := fw.Add(target); err != nil {
		fw.Close()
		return fmt.Errorf("watching %s: %w", target, err)
	}

	w.watcher = fw
	w.ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.loop()

	logger.Info("Watching %s for changes", w.path)
	return nil
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	if w.cancel == nil {
		return nil
	}
	w.cancel()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("Archive event %s on %s", event.Op, event.Name)
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// relevant reports whether event touches the watched archive.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	if w.dir {
		return true
	}
	return filepath.Clean(event.Name) == w.path
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, w.reload)
}

func (w *Watcher) reload() {
	if err := w.limiter.Wait(w.ctx); err != nil {
		return
	}

	rec, err := w.ingest.Load(w.ctx, w.path)
	w.reloads.Add(1)
	if err != nil {
		logger.Warn("Reload of %s failed: %v", w.path, err)
	} else {
		logger.Info("Reloaded %s: %d conversations", w.path, rec.Conversations)
	}

	if w.opts.OnReload != nil {
		w.opts.OnReload(rec, err)
	}
}
