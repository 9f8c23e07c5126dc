// Package watch re-renders a project whenever its inputs change. It
// subscribes to the config file and the templates and images trees,
// and runs a full render synchronously for every created or modified
// file. Events are neither coalesced nor debounced.
package watch
