// Command workflowmonk runs the lead intake wizard, either as an HTTP and
// websocket service or interactively in the terminal.
package main

import (
	"fmt"
	"os"

	"workflowmonk/cmd/workflowmonk/commands"
)

func main() {
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
