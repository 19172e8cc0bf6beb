// Command entangled tangles and stitches literate Markdown projects.
package main

import (
	"fmt"
	"os"

	"github.com/entangled/entangled-go/cmd/entangled/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
