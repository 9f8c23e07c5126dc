package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/hupe1980/rerender/internal/analyze"
	"github.com/hupe1980/rerender/internal/output"
	"github.com/hupe1980/rerender/internal/project"
)

// TemplateExt is the extension of files parsed into the shared template
// set, so templates can include each other by name.
const TemplateExt = ".jinja"

// Result describes a successful full render.
type Result struct {
	// Artifacts are the written artifact paths in render order.
	Artifacts []string
	// Images is the length of the image list.
	Images int
	// Duration is the wall time of the render.
	Duration time.Duration
}

// Artifact is one rendered document that has not been written.
type Artifact struct {
	Path    string
	Content []byte
}

// Renderer renders a project layout. Full renders on one Renderer are
// serialized, so a watcher and a manual trigger sharing it cannot interleave
// writes to the same artifacts.
type Renderer struct {
	mu sync.Mutex

	layout    project.Layout
	strict    bool
	minifier  *output.Minifier
	newWriter output.WriterFactory
	logger    *slog.Logger
	doneLevel slog.Level
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStrict controls the missing-key policy. When strict (the default), a
// template referencing a key absent from the context fails with ErrRender;
// otherwise the engine prints "<no value>".
func WithStrict(strict bool) Option {
	return func(r *Renderer) {
		r.strict = strict
	}
}

// WithMinify enables minification of artifacts by file extension.
func WithMinify(enabled bool) Option {
	return func(r *Renderer) {
		if enabled {
			r.minifier = output.NewMinifier()
		} else {
			r.minifier = nil
		}
	}
}

// WithLogger sets the logger used for render notifications.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// WithSuccessLevel sets the level of the record logged after each full
// render. It defaults to slog.LevelInfo; a watcher printing its own status
// line lowers it to slog.LevelDebug.
func WithSuccessLevel(level slog.Level) Option {
	return func(r *Renderer) {
		r.doneLevel = level
	}
}

// WithWriterFactory overrides how artifacts are written.
func WithWriterFactory(f output.WriterFactory) Option {
	return func(r *Renderer) {
		r.newWriter = f
	}
}

// New creates a Renderer for layout.
func New(layout project.Layout, opts ...Option) *Renderer {
	r := &Renderer{
		layout: layout,
		strict:    true,
		logger:    slog.Default(),
		doneLevel: slog.LevelInfo,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.newWriter == nil {
		r.newWriter = output.FileWriterFactory(output.WithLogger(r.logger))
	}

	return r
}

// Layout returns the layout the renderer was created with.
func (r *Renderer) Layout() project.Layout {
	return r.layout
}

// RenderAll loads the config record and the image list, then renders every
// target in order. It stops at the first failing target.
func (r *Renderer) RenderAll(ctx context.Context) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render cancelled: %w", err)
	}

	start := time.Now()

	layout, data, err := r.load()
	if err != nil {
		return nil, err
	}

	images, _ := data[ImagesKey].([]string)
	res := &Result{Images: len(images)}

	for _, t := range layout.Targets {
		out := layout.OutputPath(t)

		if err := r.renderOne(layout, t.Template, out, data); err != nil {
			return nil, err
		}

		res.Artifacts = append(res.Artifacts, out)
	}

	res.Duration = time.Since(start)

	r.logger.Log(ctx, r.doneLevel, "templates re-rendered",
		slog.String("root", layout.Root),
		slog.Int("artifacts", len(res.Artifacts)),
		slog.Int("images", res.Images),
		slog.Duration("duration", res.Duration),
	)

	return res, nil
}

// RenderToMemory performs a full render without writing anything and
// returns the documents in target order.
func (r *Renderer) RenderToMemory(ctx context.Context) ([]Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render cancelled: %w", err)
	}

	layout, data, err := r.load()
	if err != nil {
		return nil, err
	}

	artifacts := make([]Artifact, 0, len(layout.Targets))

	for _, t := range layout.Targets {
		out := layout.OutputPath(t)

		doc, err := r.execute(layout, t.Template, out, data)
		if err != nil {
			return nil, err
		}

		artifacts = append(artifacts, Artifact{Path: out, Content: doc})
	}

	return artifacts, nil
}

// Load resolves the layout and builds a fresh render context from disk.
func (r *Renderer) Load(ctx context.Context) (Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render cancelled: %w", err)
	}

	_, data, err := r.load()

	return data, err
}

// RenderOne renders a single template into outputPath.
func (r *Renderer) RenderOne(ctx context.Context, templateName, outputPath string, data Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("render cancelled: %w", err)
	}

	layout, err := r.layout.Abs()
	if err != nil {
		return err
	}

	return r.renderOne(layout, templateName, outputPath, data)
}

// WriteFile replaces the file at path with content. The parent directory
// must exist.
func (r *Renderer) WriteFile(path string, content []byte) error {
	if err := r.newWriter(path).Write(content); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}

func (r *Renderer) load() (project.Layout, Context, error) {
	layout, err := r.layout.Abs()
	if err != nil {
		return project.Layout{}, nil, err
	}

	rec, err := LoadRecord(layout.ConfigFile)
	if err != nil {
		return project.Layout{}, nil, err
	}

	images, err := ListImages(layout.ImagesDir)
	if err != nil {
		return project.Layout{}, nil, err
	}

	return layout, NewContext(rec, images), nil
}

func (r *Renderer) renderOne(layout project.Layout, name, outputPath string, data Context) error {
	doc, err := r.execute(layout, name, outputPath, data)
	if err != nil {
		return err
	}

	return r.WriteFile(outputPath, doc)
}

// execute parses the template set and runs name against data, applying
// minification for outputPath when enabled.
func (r *Renderer) execute(layout project.Layout, name, outputPath string, data Context) ([]byte, error) {
	tpl, err := r.parse(layout.TemplatesDir, name)
	if err != nil {
		return nil, err
	}

	if !r.strict {
		if missing := analyze.Missing(analyze.References(tpl, name), data); len(missing) > 0 {
			r.logger.Warn("template references keys missing from config",
				slog.String("template", name),
				slog.Any("keys", missing),
			)
		}
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}

	doc := buf.Bytes()

	if r.minifier != nil {
		doc, err = r.minifier.Minify(outputPath, doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRender, name, err)
		}
	}

	return doc, nil
}

// parse builds a template set from every *.jinja file under dir plus name
// itself. Templates are named by their slash-separated path relative to dir.
func (r *Renderer) parse(dir, name string) (*template.Template, error) {
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return nil, fmt.Errorf("%w: %q is outside %s", ErrTemplateNotFound, name, dir)
	}

	info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s in %s", ErrTemplateNotFound, name, dir)
	}

	missingKey := "missingkey=default"
	if r.strict {
		missingKey = "missingkey=error"
	}

	set := template.New("").Funcs(funcMap()).Option(missingKey)

	files, err := templateFiles(dir, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	for _, rel := range files {
		src, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel))) //nolint:gosec // inside templates dir
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrRender, rel, err)
		}

		if _, err := set.New(rel).Parse(string(src)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRender, err)
		}
	}

	return set, nil
}

// templateFiles lists the templates to parse, relative to dir. Hidden
// files and directories are skipped.
func templateFiles(dir, name string) ([]string, error) {
	files := []string{name}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() || !strings.HasSuffix(d.Name(), TemplateExt) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		if rel = filepath.ToSlash(rel); rel != name {
			files = append(files, rel)
		}

		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("walking templates: %w", err)
	}

	return files, nil
}
