package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Dicklesworthstone/orgnet/pkg/loader"
)

// WatchOptions configures file watching and endpoint polling.
type WatchOptions struct {
	// Debounce coalesces bursts of file events. Default 500ms.
	Debounce time.Duration
	// Interval is the HTTP polling frequency. Default 30s.
	Interval time.Duration
	Verbose  bool
	Logger   func(msg string)
}

func (o *WatchOptions) fill() {
	if o.Debounce == 0 {
		o.Debounce = 500 * time.Millisecond
	}
	if o.Interval == 0 {
		o.Interval = 30 * time.Second
	}
	if o.Logger == nil {
		o.Logger = func(string) {}
	}
}

// Watcher notifies a callback when a data source changes: filesystem events
// for SQLite files, count polling for HTTP endpoints.
type Watcher struct {
	source   DataSource
	callback func(DataSource)
	opts     WatchOptions

	fsw  *fsnotify.Watcher
	done chan struct{}

	mu        sync.Mutex
	lastCount int
	stopped   bool
}

// NewWatcher creates a watcher for the given source. Start must be called to
// begin delivery.
func NewWatcher(source DataSource, callback func(DataSource), opts WatchOptions) (*Watcher, error) {
	opts.fill()
	w := &Watcher{
		source:    source,
		callback:  callback,
		opts:      opts,
		done:      make(chan struct{}),
		lastCount: source.PersonCount,
	}

	if source.Type == SourceTypeSQLite {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("create watcher: %w", err)
		}
		// Watch the directory: sqlite writes often replace or append to the
		// file via temp files, which breaks per-file watches.
		if err := fsw.Add(filepath.Dir(source.Path)); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", source.Path, err)
		}
		w.fsw = fsw
	}
	return w, nil
}

// Start begins watching in the background.
func (w *Watcher) Start() {
	switch w.source.Type {
	case SourceTypeSQLite:
		go w.runFile()
	case SourceTypeHTTP:
		go w.runPoll()
	}
}

// Stop terminates the watcher. Safe to call once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	close(w.done)
	if w.fsw != nil {
		w.fsw.Close()
	}
}

func (w *Watcher) runFile() {
	base := filepath.Base(w.source.Path)
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// sqlite side files (-wal, -journal) signal writes too.
			name := filepath.Base(ev.Name)
			if name != base && name != base+"-wal" && name != base+"-journal" {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.opts.Debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.opts.Verbose {
				w.opts.Logger(fmt.Sprintf("watch error: %v", err))
			}
		case <-fire:
			w.notifyFileChange()
		}
	}
}

func (w *Watcher) notifyFileChange() {
	src := w.source
	if info, err := os.Stat(src.Path); err == nil {
		src.ModTime = info.ModTime()
	}
	if w.opts.Verbose {
		w.opts.Logger(fmt.Sprintf("Database changed: %s", src.Path))
	}
	if w.callback != nil {
		w.callback(src)
	}
}

func (w *Watcher) runPoll() {
	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	h := loader.NewHTTPStore(w.source.Path, w.source.apiKey, loader.ParseOptions{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	count, err := h.Ping(ctx)
	if err != nil {
		if w.opts.Verbose {
			w.opts.Logger(fmt.Sprintf("poll failed: %v", err))
		}
		return
	}

	w.mu.Lock()
	changed := count != w.lastCount
	old := w.lastCount
	w.lastCount = count
	w.mu.Unlock()

	if !changed {
		return
	}
	if w.opts.Verbose {
		w.opts.Logger(fmt.Sprintf("Endpoint changed: %d people (was %d)", count, old))
	}
	src := w.source
	src.PersonCount = count
	src.ModTime = time.Now()
	if w.callback != nil {
		w.callback(src)
	}
}
