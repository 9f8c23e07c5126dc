// rerender renders a static site from templates, a JSON config and an
// images directory, once or whenever the inputs change.
package main

import (
	"os"

	"github.com/hupe1980/rerender/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
