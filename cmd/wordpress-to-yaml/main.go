// Command wordpress-to-yaml converts a WordPress export (WXR) into a YAML
// document of records.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	root := newRootCmd()
	if executed, err := root.ExecuteC(); err != nil {
		fmt.Fprintln(os.Stderr, failureMessage(root, executed, err))
		os.Exit(1)
	}
}

// failureMessage names what failed: the conversion itself, or the
// subcommand that ran.
func failureMessage(root, executed *cobra.Command, err error) string {
	if executed == nil || executed == root {
		return "export failed: " + err.Error()
	}
	return executed.Name() + " failed: " + err.Error()
}
