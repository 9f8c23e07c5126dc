package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hupe1980/rerender/internal/maputil"
)

// ImagesKey is the render context key bound to the image list.
const ImagesKey = "images"

// Record is the config record: an arbitrary JSON object loaded verbatim.
type Record map[string]any

// Context is the data a template executes against.
type Context map[string]any

// LoadRecord reads and parses the config record at path. Numbers are kept as
// json.Number until NewContext converts them, so integers never pass
// through float64.
func LoadRecord(path string) (Record, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the project layout
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigMissing, path)
		}

		return nil, fmt.Errorf("%w: %s: %w", ErrConfigMissing, path, err)
	}

	return ParseRecord(path, data)
}

// ParseRecord parses data as a config record. name is used in error
// messages only.
func ParseRecord(name string, data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rec map[string]any
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, name, err)
	}

	if rec == nil {
		return nil, fmt.Errorf("%w: %s: top-level value must be a JSON object", ErrConfigParse, name)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: unexpected data after top-level object", ErrConfigParse, name)
	}

	return Record(rec), nil
}

// ListImages returns the names of the regular files directly inside dir,
// sorted by name. Subdirectories are skipped; symlinks are followed and kept
// when they point at a regular file.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImagesDirMissing, dir, err)
	}

	images := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		info, statErr := os.Stat(filepath.Join(dir, e.Name()))
		if statErr != nil {
			// Dangling symlink.
			continue
		}

		if info.Mode().IsRegular() {
			images = append(images, e.Name())
		}
	}

	return images, nil
}

// NewContext builds a render context from rec and images. rec is deep
// copied, so later changes to it do not leak into the context. An "images"
// key already present in rec is replaced.
//
// Scalars are converted for the template engine: numbers become int64,
// uint64 or float64 so comparisons and conditionals behave numerically,
// and JSON null becomes the empty string.
func NewContext(rec Record, images []string) Context {
	ctx := Context(maputil.DeepCopyMapFunc(rec, templateValue))
	if ctx == nil {
		ctx = Context{}
	}

	ctx[ImagesKey] = append([]string{}, images...)

	return ctx
}

// templateValue converts one decoded JSON scalar for template use.
func templateValue(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}

		if u, err := strconv.ParseUint(val.String(), 10, 64); err == nil {
			return u
		}

		if f, err := val.Float64(); err == nil {
			return f
		}

		return val.String()
	default:
		return v
	}
}
