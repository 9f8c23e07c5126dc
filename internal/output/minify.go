package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	mjson "github.com/tdewolff/minify/v2/json"
)

// Media types understood by the Minifier.
const (
	MediaTypeHTML = "text/html"
	MediaTypeCSS  = "text/css"
	MediaTypeJS   = "application/javascript"
	MediaTypeJSON = "application/json"
)

// Minifier shrinks rendered artifacts based on their file extension.
type Minifier struct {
	m *minify.M
}

// NewMinifier returns a Minifier for HTML, CSS, JavaScript and JSON.
func NewMinifier() *Minifier {
	m := minify.New()
	m.AddFunc(MediaTypeCSS, css.Minify)
	m.Add(MediaTypeHTML, &html.Minifier{
		KeepDocumentTags:    true,
		KeepDefaultAttrVals: true,
		KeepEndTags:         true,
	})
	m.AddFunc(MediaTypeJS, js.Minify)
	m.AddFunc(MediaTypeJSON, mjson.Minify)

	return &Minifier{m: m}
}

// MediaType maps an artifact path to a media type. The second result is
// false for extensions the Minifier does not handle.
func MediaType(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return MediaTypeHTML, true
	case ".css":
		return MediaTypeCSS, true
	case ".js", ".mjs":
		return MediaTypeJS, true
	case ".json":
		return MediaTypeJSON, true
	default:
		return "", false
	}
}

// Minify returns the minified form of data. Data for unknown extensions is
// returned unchanged.
func (m *Minifier) Minify(path string, data []byte) ([]byte, error) {
	mediaType, ok := MediaType(path)
	if !ok {
		return data, nil
	}

	out, err := m.m.Bytes(mediaType, data)
	if err != nil {
		return nil, fmt.Errorf("minifying %s: %w", filepath.Base(path), err)
	}

	return out, nil
}
