package main

import (
	"github.com/kievzenit/impc/internal/printer"
	"github.com/spf13/cobra"
)

func (a *app) printCmd() *cobra.Command {
	var style string
	var indent int

	cmd := &cobra.Command{
		Use:   "print <file>",
		Short: "Print the syntax tree as an outline or as re-parseable source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("style") {
				style = a.cfg.Printer.Style
			}
			if !cmd.Flags().Changed("indent") {
				indent = a.cfg.Printer.Indent
			}

			printStyle, err := printer.ParseStyle(style)
			if err != nil {
				return err
			}

			program, err := a.parseFile(args[0])
			if err != nil {
				return err
			}

			opts := printer.Options{Style: printStyle, Indent: indent}
			return printer.NewPrintVisitor(a.stdout, opts).Print(program)
		},
	}

	cmd.Flags().StringVarP(&style, "style", "s", "outline", "outline or source")
	cmd.Flags().IntVarP(&indent, "indent", "i", 2, "spaces per nesting level")

	return cmd
}
