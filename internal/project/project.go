// Package project describes the on-disk layout of a rerender project: where
// the config record, images and templates live, which templates produce
// which artifacts, and which paths the watcher subscribes to.
//
// A Layout is passed explicitly to both the renderer and the watcher so
// tests can point them at a temporary root.
package project

import (
	"fmt"
	"path/filepath"
)

// Default file and directory names relative to the project root.
const (
	ConfigFileName   = "config.json"
	ImagesDirName    = "images"
	TemplatesDirName = "templates"
)

// Target pairs a template name (relative to the templates directory) with
// the artifact it renders (relative to the project root).
type Target struct {
	Template string
	Output   string
}

// DefaultTargets returns the three artifacts in render order.
func DefaultTargets() []Target {
	return []Target{
		{Template: "index.html.jinja", Output: "index.html"},
		{Template: "style.css.jinja", Output: "style.css"},
		{Template: "script.js.jinja", Output: "script.js"},
	}
}

// Layout is the resolved set of project paths.
type Layout struct {
	// Root is the project root directory.
	Root string

	// ConfigFile is the JSON config record.
	ConfigFile string

	// ImagesDir is the flat directory whose regular files become the
	// image list.
	ImagesDir string

	// TemplatesDir holds the templates named by Targets.
	TemplatesDir string

	// Targets are rendered in order on every full render.
	Targets []Target
}

// DefaultLayout returns the standard layout rooted at root. An empty root
// means the current directory.
func DefaultLayout(root string) Layout {
	if root == "" {
		root = "."
	}

	return Layout{
		Root:         root,
		ConfigFile:   filepath.Join(root, ConfigFileName),
		ImagesDir:    filepath.Join(root, ImagesDirName),
		TemplatesDir: filepath.Join(root, TemplatesDirName),
		Targets:      DefaultTargets(),
	}
}

// Abs returns a copy of l with every path made absolute.
func (l Layout) Abs() (Layout, error) {
	out := l
	out.Targets = append([]Target(nil), l.Targets...)

	for _, p := range []*string{&out.Root, &out.ConfigFile, &out.ImagesDir, &out.TemplatesDir} {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return Layout{}, fmt.Errorf("resolving %q: %w", *p, err)
		}

		*p = abs
	}

	return out, nil
}

// OutputPath returns the absolute-or-relative artifact path for t.
func (l Layout) OutputPath(t Target) string {
	return filepath.Join(l.Root, t.Output)
}

// SubscriptionKind distinguishes a single watched file from a watched tree.
type SubscriptionKind int

// Subscription kinds.
const (
	// File watches exactly one file.
	File SubscriptionKind = iota
	// Tree watches a directory and all of its descendants.
	Tree
)

func (k SubscriptionKind) String() string {
	switch k {
	case File:
		return "file"
	case Tree:
		return "tree"
	default:
		return fmt.Sprintf("SubscriptionKind(%d)", int(k))
	}
}

// Subscription is one path the watcher registers at startup.
type Subscription struct {
	Path string
	Kind SubscriptionKind
}

// Subscriptions returns the fixed watch set: the config file, the templates
// tree and the images tree.
func (l Layout) Subscriptions() []Subscription {
	return []Subscription{
		{Path: l.ConfigFile, Kind: File},
		{Path: l.TemplatesDir, Kind: Tree},
		{Path: l.ImagesDir, Kind: Tree},
	}
}
