package main

import (
	"fmt"

	"github.com/kievzenit/impc/internal/printer"
	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"
)

func (a *app) dumpCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Dump the syntax tree as Go values (litter) or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := a.parseFile(args[0])
			if err != nil {
				return err
			}

			switch format {
			case "litter":
				_, err := fmt.Fprintln(a.stdout, litter.Sdump(program))
				return err
			case "yaml":
				return printer.NewYAMLVisitor().Encode(a.stdout, program, a.cfg.Printer.Indent)
			}

			return fmt.Errorf("unknown dump format %q, expected litter or yaml", format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "litter", "litter or yaml")

	return cmd
}
