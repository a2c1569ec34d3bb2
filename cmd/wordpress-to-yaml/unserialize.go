package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sleroq/wordpress-to-yaml/internal/domain/wordpress"
	"github.com/sleroq/wordpress-to-yaml/internal/infra/exportfs"
	"github.com/sleroq/wordpress-to-yaml/internal/infra/phpserialize"
)

func newUnserializeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unserialize [value]",
		Short: "Decode a serialized PHP value and print it as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			} else {
				data, err := readInput(cmd, nil)
				if err != nil {
					return err
				}
				raw = strings.TrimRight(string(data), "\r\n")
			}
			v, err := phpserialize.Decode(raw)
			if err != nil {
				return err
			}
			return exportfs.EncodeValue(cmd.OutOrStdout(), wordpress.NormalizeSequential(v))
		},
	}
}
