package render

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"emphasis", "**hi**", "<p><strong>hi</strong></p>\n"},
		{"heading gets an id", "# About me", "<h1 id=\"about-me\">About me</h1>\n"},
		{"nil is empty", nil, ""},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := markdown(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFuncMap_HasSprigAndMarkdown(t *testing.T) {
	fm := funcMap()

	for _, name := range []string{"markdown", "upper", "toJson", "default"} {
		assert.Contains(t, fm, name)
	}
}

func TestRenderAll_MarkdownFunction(t *testing.T) {
	tpls := defaultTemplates()
	tpls["index.html.jinja"] = "{{ .about | markdown }}"

	l := newProject(t, `{"about":"*Photos* from the trip"}`, nil, tpls)

	_, err := newRenderer(l).RenderAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "<p><em>Photos</em> from the trip</p>\n", readFile(t, filepath.Join(l.Root, "index.html")))
}
