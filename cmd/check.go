package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Parse and check names, calls and declarations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := a.check(args[0]); err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "%s: ok\n", args[0])
			return nil
		},
	}
}
