// Package rerender provides a public Go API for rendering a rerender
// project and for watching it for changes, without the CLI.
//
// Basic usage:
//
//	result, err := rerender.Render(ctx, "path/to/site")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Artifacts)
//
// Watching until ctx is cancelled:
//
//	err := rerender.Watch(ctx, "path/to/site",
//	    rerender.WithInitialRender(),
//	    rerender.WithOutput(os.Stderr),
//	)
package rerender

import (
	"context"
	"io"
	"log/slog"

	"github.com/hupe1980/rerender/internal/logging"
	"github.com/hupe1980/rerender/internal/project"
	"github.com/hupe1980/rerender/internal/render"
	"github.com/hupe1980/rerender/internal/watch"
)

// Errors returned by Render and reported by Watch. Match with errors.Is.
var (
	ErrConfigMissing    = render.ErrConfigMissing
	ErrConfigParse      = render.ErrConfigParse
	ErrImagesDirMissing = render.ErrImagesDirMissing
	ErrTemplateNotFound = render.ErrTemplateNotFound
	ErrRender           = render.ErrRender
	ErrWrite            = render.ErrWrite
	ErrWatcherRunning   = watch.ErrAlreadyRunning
)

// Result describes a successful render.
type Result = render.Result

// Option configures Render and Watch.
type Option func(*options)

type options struct {
	lenient bool
	minify  bool
	initial bool
	logger  *slog.Logger
	out     io.Writer
}

// WithLenient renders keys missing from the config as "<no value>" instead
// of failing.
func WithLenient() Option {
	return func(o *options) { o.lenient = true }
}

// WithMinify minifies artifacts by file extension.
func WithMinify() Option {
	return func(o *options) { o.minify = true }
}

// WithInitialRender makes Watch render once before waiting for changes.
func WithInitialRender() Option {
	return func(o *options) { o.initial = true }
}

// WithLogger sets the structured logger. The default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithOutput sets where Watch prints its status lines. The default
// discards them.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

func newOptions(opts []Option) *options {
	o := &options{logger: logging.Discard(), out: io.Discard}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

func newRenderer(root string, o *options, extra ...render.Option) *render.Renderer {
	opts := append([]render.Option{
		render.WithStrict(!o.lenient),
		render.WithMinify(o.minify),
		render.WithLogger(o.logger),
	}, extra...)

	return render.New(project.DefaultLayout(root), opts...)
}

// Render performs one full render of the project at root.
func Render(ctx context.Context, root string, opts ...Option) (*Result, error) {
	o := newOptions(opts)

	return newRenderer(root, o).RenderAll(ctx)
}

// Watch re-renders the project at root on every change to its config file,
// templates or images. It blocks until ctx is cancelled and returns nil on
// a clean shutdown.
func Watch(ctx context.Context, root string, opts ...Option) error {
	o := newOptions(opts)
	r := newRenderer(root, o, render.WithSuccessLevel(slog.LevelDebug))

	wopts := watch.DefaultOptions(r.Layout())
	wopts.InitialRender = o.initial
	wopts.Logger = o.logger
	wopts.Out = o.out

	return watch.New(wopts, r.RenderAll).Start(ctx)
}
