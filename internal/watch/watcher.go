package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hupe1980/rerender/internal/project"
	"github.com/hupe1980/rerender/internal/render"
)

// RenderFunc is called synchronously for every qualifying event.
type RenderFunc func(ctx context.Context) (*render.Result, error)

// State is the lifecycle state of a Watcher.
type State int32

// Watcher states.
const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// ErrAlreadyRunning is returned by Start on a running Watcher.
var ErrAlreadyRunning = errors.New("watcher already running")

// Options configures the watch behaviour.
type Options struct {
	// Subscriptions is the fixed set of watched paths.
	Subscriptions []project.Subscription

	// InitialRender renders once right after the subscriptions are
	// registered, before waiting for events.
	InitialRender bool

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns default watch options for layout.
func DefaultOptions(layout project.Layout) Options {
	return Options{
		Subscriptions: layout.Subscriptions(),
		Logger:        slog.Default(),
		Out:           os.Stderr,
	}
}

// Watcher re-renders a project whenever one of its subscribed paths
// changes.
type Watcher struct {
	opts   Options
	render RenderFunc
	state  atomic.Int32

	// Resolved subscriptions, valid while running.
	files map[string]bool
	trees []string

	readyHook func() // used in tests, called once subscriptions are registered
}

// New creates a stopped Watcher.
func New(opts Options, fn RenderFunc) *Watcher {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	return &Watcher{opts: opts, render: fn}
}

// State reports whether the watcher is running.
func (w *Watcher) State() State {
	return State(w.state.Load())
}

// Start registers the subscriptions and blocks until ctx is cancelled or a
// SIGINT/SIGTERM signal is received. A clean shutdown returns nil.
func (w *Watcher) Start(ctx context.Context) error {
	if !w.state.CompareAndSwap(int32(StateStopped), int32(StateRunning)) {
		return ErrAlreadyRunning
	}
	defer w.state.Store(int32(StateStopped))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := w.subscribe(watcher); err != nil {
		return err
	}

	// Trap SIGINT / SIGTERM for graceful shutdown.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	paths := make([]string, 0, len(w.opts.Subscriptions))
	for _, s := range w.opts.Subscriptions {
		paths = append(paths, s.Path)
	}

	fmt.Fprintf(w.opts.Out, "watching %s\n", strings.Join(paths, ", "))

	if w.readyHook != nil {
		w.readyHook()
	}

	if w.opts.InitialRender {
		w.run(sigCtx, "(initial)")
	}

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(w.opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			w.handle(sigCtx, watcher, event)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			w.opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// subscribe resolves and registers every subscription. A file subscription
// watches the file's directory and filters by name, so files replaced by
// rename keep being observed.
func (w *Watcher) subscribe(watcher *fsnotify.Watcher) error {
	w.files = make(map[string]bool)
	w.trees = nil

	for _, s := range w.opts.Subscriptions {
		abs, err := filepath.Abs(s.Path)
		if err != nil {
			return fmt.Errorf("resolving %q: %w", s.Path, err)
		}

		switch s.Kind {
		case project.File:
			if err := watcher.Add(filepath.Dir(abs)); err != nil {
				return fmt.Errorf("watching file %q: %w", abs, err)
			}

			w.files[abs] = true
		case project.Tree:
			if err := addRecursive(watcher, abs); err != nil {
				return fmt.Errorf("watching directory %q: %w", abs, err)
			}

			w.trees = append(w.trees, abs)
		default:
			return fmt.Errorf("unknown subscription kind %s for %q", s.Kind, s.Path)
		}

		w.opts.Logger.Debug("subscribed", slog.String("path", abs), slog.String("kind", s.Kind.String()))
	}

	return nil
}

// handle applies the event contract to a single event and reports whether
// a render was triggered.
func (w *Watcher) handle(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if !w.inScope(event.Name) {
		return false
	}

	info, err := os.Stat(event.Name)

	switch {
	case err == nil && info.IsDir():
		// New directories inside a watched tree are watched too.
		if event.Has(fsnotify.Create) && watcher != nil && w.inTree(event.Name) {
			if addErr := addRecursive(watcher, event.Name); addErr != nil {
				w.opts.Logger.Warn("watching new directory", slog.String("path", event.Name), slog.Any("error", addErr))
			}
		}

		return false
	case errors.Is(err, fs.ErrNotExist) && event.Has(fsnotify.Create):
		// Gone before it could be classified; the Remove that follows is
		// not a trigger either.
		w.opts.Logger.Debug("created path vanished", slog.String("path", event.Name))
		return false
	}

	if !isRelevant(event) {
		return false
	}

	fmt.Fprintf(w.opts.Out, "change detected: %s (%s), re-rendering\n", event.Name, kindOf(event))
	w.run(ctx, event.Name)

	return true
}

// run performs one synchronous render and prints the status line. A failed
// render is reported; the watch loop keeps going.
func (w *Watcher) run(ctx context.Context, trigger string) {
	defer func() {
		if r := recover(); r != nil {
			w.opts.Logger.Error("render panicked", slog.String("trigger", trigger), slog.Any("error", r))
			fmt.Fprintf(w.opts.Out, "[%s] render failed: panic: %v\n", time.Now().Format("15:04:05"), r)
		}
	}()

	result, err := w.render(ctx)

	now := time.Now().Format("15:04:05")

	if err != nil {
		w.opts.Logger.Error("render failed", slog.String("trigger", trigger), slog.Any("error", err))
		fmt.Fprintf(w.opts.Out, "[%s] render failed: %v\n", now, err)

		return
	}

	fmt.Fprintf(w.opts.Out, "[%s] rendered %d artifacts (%d images) in %s\n",
		now, len(result.Artifacts), result.Images, result.Duration.Round(time.Millisecond))
}

// inScope reports whether path is one of the subscribed files or inside a
// subscribed tree.
func (w *Watcher) inScope(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	return w.files[abs] || w.inTree(abs)
}

func (w *Watcher) inTree(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	for _, root := range w.trees {
		if abs == root || strings.HasPrefix(abs, root+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

// addRecursive walks root and adds all directories to the watcher.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			// Skip hidden directories (e.g., .git).
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}

			return watcher.Add(path)
		}

		return nil
	})
}

// isRelevant reports whether the event is a creation or modification.
// Removals, renames and permission changes never trigger a render.
func isRelevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write)
}

// kindOf names the event the way the status line reports it.
func kindOf(event fsnotify.Event) string {
	switch {
	case event.Has(fsnotify.Create):
		return "created"
	case event.Has(fsnotify.Write):
		return "modified"
	case event.Has(fsnotify.Remove):
		return "deleted"
	case event.Has(fsnotify.Rename):
		return "moved"
	default:
		return "other"
	}
}
