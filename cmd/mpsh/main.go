package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pders01/mpsh/internal/shell"
)

// Version is the version of the application, set at build time
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, shell.ErrBatchFailed) {
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
