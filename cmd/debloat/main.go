package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(execute(newRootCommand(), os.Stderr))
}

// execute runs cmd and maps its error to an exit status. An interrupted run
// already logged why it stopped, so only other errors are printed.
func execute(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "debloat: %v\n", err)
	}
	return 1
}
