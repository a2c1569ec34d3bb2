package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sleroq/wordpress-to-yaml/internal/markdown"
)

func newMarkdownCmd() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "markdown [file]",
		Short: "Convert an HTML fragment to Markdown",
		Long:  "Converts HTML from a file, or stdin when no file is given, to Markdown wrapped at --width columns.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out, err := markdown.Convert(string(src), width)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().IntVar(&width, "width", markdown.DefaultWidth, "Wrap paragraphs at this many columns (0 disables)")
	return cmd
}

// readInput reads the file named by the first argument, or stdin.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}
