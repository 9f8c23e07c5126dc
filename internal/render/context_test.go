package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// ParseRecord / LoadRecord
// ---------------------------------------------------------------------------

func TestParseRecord_Valid(t *testing.T) {
	rec, err := ParseRecord("config.json", []byte(`{"title":"Home","count":3,"nested":{"a":[1,2]}}`))
	require.NoError(t, err)

	assert.Equal(t, "Home", rec["title"])
	assert.Equal(t, json.Number("3"), rec["count"])
	assert.Equal(t, map[string]any{"a": []any{json.Number("1"), json.Number("2")}}, rec["nested"])
}

func TestParseRecord_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"trailing comma", `{"title":"Home",}`},
		{"array", `[1,2,3]`},
		{"string", `"hello"`},
		{"null", `null`},
		{"empty", ``},
		{"trailing data", `{"a":1} {"b":2}`},
		{"truncated", `{"a":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord("config.json", []byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigParse)
			assert.NotErrorIs(t, err, ErrConfigMissing)
		})
	}
}

func TestParseRecord_TrailingWhitespace(t *testing.T) {
	rec, err := ParseRecord("config.json", []byte("{\"a\":1}\n\n"))
	require.NoError(t, err)
	assert.Len(t, rec, 1)
}

func TestLoadRecord_Missing(t *testing.T) {
	_, err := LoadRecord(filepath.Join(t.TempDir(), "config.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigMissing)
	assert.NotErrorIs(t, err, ErrConfigParse)
}

func TestLoadRecord_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"title":"Home"}`), 0o644)) //nolint:gosec // test

	rec, err := LoadRecord(p)
	require.NoError(t, err)
	assert.Equal(t, Record{"title": "Home"}, rec)
}

// ---------------------------------------------------------------------------
// ListImages
// ---------------------------------------------------------------------------

func TestListImages_RegularFilesOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.jpg"), nil, 0o644))     //nolint:gosec // test
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), nil, 0o644))     //nolint:gosec // test
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644)) //nolint:gosec // test
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "thumbs"), 0o755))

	images, err := ListImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.jpg", "notes.txt"}, images)
}

func TestListImages_Empty(t *testing.T) {
	images, err := ListImages(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestListImages_Symlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "real.png")
	require.NoError(t, os.WriteFile(target, nil, 0o644)) //nolint:gosec // test

	if err := os.Symlink(target, filepath.Join(dir, "link.png")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	require.NoError(t, os.Symlink(filepath.Join(dir, "gone.png"), filepath.Join(dir, "dangling.png")))

	images, err := ListImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"link.png"}, images)
}

func TestListImages_MissingDir(t *testing.T) {
	_, err := ListImages(filepath.Join(t.TempDir(), "images"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImagesDirMissing)
}

func TestListImages_NotADirectory(t *testing.T) {
	p := filepath.Join(t.TempDir(), "images")
	require.NoError(t, os.WriteFile(p, nil, 0o644)) //nolint:gosec // test

	_, err := ListImages(p)
	assert.ErrorIs(t, err, ErrImagesDirMissing)
}

// ---------------------------------------------------------------------------
// NewContext
// ---------------------------------------------------------------------------

func TestNewContext_AddsImages(t *testing.T) {
	rec := Record{"title": "Home"}
	ctx := NewContext(rec, []string{"logo.png"})

	assert.Equal(t, "Home", ctx["title"])
	assert.Equal(t, []string{"logo.png"}, ctx[ImagesKey])
	assert.NotContains(t, rec, ImagesKey, "record must not be mutated")
}

func TestNewContext_ImagesKeyOverridesRecord(t *testing.T) {
	rec := Record{"images": "from-config"}
	ctx := NewContext(rec, []string{"a.png"})

	assert.Equal(t, []string{"a.png"}, ctx[ImagesKey])
	assert.Equal(t, "from-config", rec["images"])
}

func TestNewContext_Independent(t *testing.T) {
	rec := Record{"site": map[string]any{"name": "before"}}
	images := []string{"a.png"}

	ctx := NewContext(rec, images)

	rec["site"].(map[string]any)["name"] = "after"
	images[0] = "changed.png"

	assert.Equal(t, "before", ctx["site"].(map[string]any)["name"])
	assert.Equal(t, []string{"a.png"}, ctx[ImagesKey])
}

func TestNewContext_ConvertsScalars(t *testing.T) {
	rec, err := ParseRecord("config.json", []byte(
		`{"count":3,"neg":-2,"ratio":1.25,"big":18446744073709551615,"huge":1e400,"none":null,"list":[1,null,"x"]}`))
	require.NoError(t, err)

	ctx := NewContext(rec, nil)

	assert.Equal(t, int64(3), ctx["count"])
	assert.Equal(t, int64(-2), ctx["neg"])
	assert.Equal(t, 1.25, ctx["ratio"])
	assert.Equal(t, uint64(18446744073709551615), ctx["big"])
	assert.Equal(t, "1e400", ctx["huge"])
	assert.Equal(t, "", ctx["none"])
	assert.Equal(t, []any{int64(1), "", "x"}, ctx["list"])

	// The record itself keeps the decoded form.
	assert.Equal(t, json.Number("3"), rec["count"])
	assert.Nil(t, rec["none"])
}

func TestNewContext_NilRecord(t *testing.T) {
	ctx := NewContext(nil, nil)
	assert.Equal(t, []string{}, ctx[ImagesKey])
}
