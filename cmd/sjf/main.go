// cmd/sjf/main.go
//
// Entry point for the sjf CLI. Running `sjf` with no subcommand opens the
// terminal visualizer for the current directory.

package main

import (
	"fmt"
	"os"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
