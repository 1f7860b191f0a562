// transformer reshapes JSON and YAML documents with path-addressed rules.
package main

import (
	"os"

	"github.com/rumur/transformer/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
