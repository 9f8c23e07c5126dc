package plan

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hupe1980/rerender/internal/render"
)

// Status classifies a rendered artifact relative to its on-disk copy.
type Status int

// Artifact statuses.
const (
	Unchanged Status = iota
	Modified
	Added
)

func (s Status) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Modified:
		return "modified"
	case Added:
		return "added"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ArtifactDiff is the comparison result for one artifact.
type ArtifactDiff struct {
	Path   string
	Status Status
	Diff   *DiffResult
}

// Compare diffs each rendered artifact against the file at the same path.
// A missing file counts as Added and is diffed against empty content.
// Paths in labels are shown relative to root when possible.
func Compare(root string, artifacts []render.Artifact, opts DiffOptions) ([]ArtifactDiff, error) {
	diffs := make([]ArtifactDiff, 0, len(artifacts))

	for _, a := range artifacts {
		status := Modified

		existing, err := os.ReadFile(a.Path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading %q: %w", a.Path, err)
			}

			status = Added
		}

		label := displayPath(root, a.Path)

		o := opts
		o.OldLabel = fmt.Sprintf("%s (%s)", label, opts.OldLabel)
		o.NewLabel = fmt.Sprintf("%s (%s)", label, opts.NewLabel)

		result, err := ComputeDiff(string(existing), string(a.Content), o)
		if err != nil {
			return nil, fmt.Errorf("diffing %q: %w", a.Path, err)
		}

		if !result.HasDifferences {
			status = Unchanged
		}

		diffs = append(diffs, ArtifactDiff{Path: a.Path, Status: status, Diff: result})
	}

	return diffs, nil
}

// HasChanges reports whether any artifact differs from disk.
func HasChanges(diffs []ArtifactDiff) bool {
	for _, d := range diffs {
		if d.Status != Unchanged {
			return true
		}
	}

	return false
}

// WriteReport writes the diff of every changed artifact followed by a
// one-line summary.
func WriteReport(w io.Writer, root string, diffs []ArtifactDiff, color bool) {
	var modified, added int

	for _, d := range diffs {
		switch d.Status {
		case Unchanged:
			continue
		case Added:
			added++
		case Modified:
			modified++
		}

		WriteDiff(w, d.Diff, color)
	}

	if modified == 0 && added == 0 {
		_, _ = fmt.Fprintln(w, "No differences found.")
		return
	}

	_, _ = fmt.Fprintf(w, "%d artifact(s) differ from %s: %d modified, %d added\n",
		modified+added, root, modified, added)
}

func displayPath(root, path string) string {
	if root == "" {
		return path
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || !filepath.IsLocal(rel) {
		return path
	}

	return filepath.ToSlash(rel)
}
