// Command figscript builds Figma plugin scripts from a catalog of property
// edits.
package main

import (
	"os"

	"github.com/figscript/figscript/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
