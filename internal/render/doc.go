// Package render produces a project's artifacts from its current on-disk
// inputs.
//
// A full render loads the JSON config record, lists the image files,
// builds a render context (the record plus an "images" key) and executes
// every target template against it, replacing each artifact on disk.
// Templates use Go's text/template syntax with the sprig function library:
//
//	<h1>{{ .title }}</h1>
//	{{ range .images }}<img src="images/{{ . }}">{{ end }}
//
// The ".jinja" extension names the file kind only; the files are not Jinja.
// Context keys are reached through the dot, so {{ .title }} reads the
// "title" key while a bare {{ title }} calls sprig's title function and
// fails with ErrRender for lack of an argument. Filters are pipelines, as in
// {{ .title | upper }}. Config numbers arrive as int64, uint64 or float64
// and JSON null as the empty string, so {{ if .count }} and
// {{ gt .columns 2 }} compare numerically.
//
// A full render is not transactional. When a target fails, earlier
// artifacts keep their new content and later artifacts are not touched.
package render
