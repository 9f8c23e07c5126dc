package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// funcMap returns the functions available to templates: the sprig library
// plus markdown.
func funcMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["markdown"] = markdown

	return fm
}

// markdown converts a config value holding Markdown to HTML, e.g.
// {{ .about | markdown }}. nil renders as an empty string.
func markdown(v any) (string, error) {
	var src string

	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		src = s
	default:
		src = fmt.Sprint(s)
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	return buf.String(), nil
}
