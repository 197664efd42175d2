// Command dendro converts tree-ring measurement files between the decadal
// and flat layouts and archives parsed series.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/dendro/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands print their own formatted errors; only flag and argument
		// errors reach here unreported.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
