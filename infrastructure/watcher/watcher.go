// Package watcher turns file system events in a directory into settled video
// paths: a file is handed off only after it has stopped changing.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"audio-extractor/domain/extraction"
	"audio-extractor/infrastructure/logging"
)

// LockFileName is created inside the watched directory
const LockFileName = ".audio-extractor.lock"

// ErrLocked means another watcher already owns the directory
var ErrLocked = errors.New("directory is already being watched")

// Handler processes one settled file
type Handler func(ctx context.Context, path string)

// Watcher watches a single directory
type Watcher struct {
	dir     string
	settle  time.Duration
	workers int
	filter  func(path string) bool
	logger  *slog.Logger
	lock    *flock.Flock
	ready   chan struct{}
}

// Option is a functional option for configuring Watcher
type Option func(*Watcher)

// WithWorkers sets how many handlers may run at once
func WithWorkers(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.workers = n
		}
	}
}

// WithFilter sets which paths are handled; defaults to known video extensions
func WithFilter(fn func(path string) bool) Option {
	return func(w *Watcher) {
		w.filter = fn
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a watcher for dir. A file is handled once no event has been
// seen for it during settle.
func New(dir string, settle time.Duration, opts ...Option) *Watcher {
	w := &Watcher{
		dir:     dir,
		settle:  settle,
		workers: 1,
		filter:  extraction.IsSupportedVideo,
		logger:  logging.Logger,
		lock:    flock.New(filepath.Join(dir, LockFileName)),
		ready:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Ready is closed once the watch is established
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

type settled struct {
	path string
	gen  uint64
}

// Run watches until ctx is done, calling handle for each settled file
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocked, w.dir)
	}
	defer func() {
		if err := w.lock.Unlock(); err != nil {
			w.logger.Warn("failed to release watch lock", "path", w.lock.Path(), "error", err)
		}
	}()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	queue := make(chan string, 64)

	for i := 0; i < w.workers; i++ {
		g.Go(func() error {
			for path := range queue {
				handle(ctx, path)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(queue)
		return w.loop(ctx, fsw, queue)
	})

	w.logger.Info("watching directory", "dir", w.dir, "settle", w.settle, "workers", w.workers)
	close(w.ready)

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, queue chan<- string) error {
	pending := make(map[string]*time.Timer)
	gens := make(map[string]uint64)
	fired := make(chan settled)

	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if !w.filter(event.Name) {
				continue
			}

			if t, exists := pending[event.Name]; exists {
				t.Stop()
				delete(pending, event.Name)
			}

			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				gens[event.Name]++
				w.logger.Debug("file removed before settling", "path", event.Name)
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			gens[event.Name]++
			s := settled{path: event.Name, gen: gens[event.Name]}
			pending[event.Name] = time.AfterFunc(w.settle, func() {
				select {
				case fired <- s:
				case <-ctx.Done():
				}
			})

		case s := <-fired:
			// A newer event restarted the timer
			if gens[s.path] != s.gen {
				continue
			}
			delete(pending, s.path)
			delete(gens, s.path)

			w.logger.Info("file settled", "path", s.path)
			select {
			case queue <- s.path:
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}
