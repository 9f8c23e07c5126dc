// Package output provides the destinations and post-processing for rendered
// artifacts.
//
// The package is organized around two concerns:
//
//   - Writers (writer.go): Pluggable destinations via the [Writer]
//     interface, with [FileWriter] (atomic replace on disk) and
//     [StdoutWriter] implementations.
//
//   - Minification (minify.go): Optional HTML, CSS, JavaScript and JSON
//     minification selected by the artifact's file extension.
package output
