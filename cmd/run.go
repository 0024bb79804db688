package main

import (
	"errors"
	"fmt"

	"github.com/kievzenit/impc/internal/interpreter"
	"github.com/spf13/cobra"
)

func (a *app) runCmd() *cobra.Command {
	var entry string
	var printResult bool

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Interpret a program",
		Long: `Interpret a program. The entry function is --entry, then interpreter.entry
from the config, then the last function in the file. It must take no parameters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileName := args[0]
			program, _, err := a.check(fileName)
			if err != nil {
				return err
			}

			opts := interpreter.Options{
				Entry:        a.cfg.Interpreter.Entry,
				MaxCallDepth: a.cfg.Interpreter.MaxCallDepth,
			}
			if entry != "" {
				opts.Entry = entry
			}

			a.logger.Debug("running", "entry", opts.Entry, "max_call_depth", opts.MaxCallDepth)
			result, err := interpreter.NewInterpreter(program, a.stdout, opts).Run()

			var runtimeErr *interpreter.RuntimeError
			if errors.As(err, &runtimeErr) {
				eh := a.newErrorHandler(fileName)
				eh.AddError(runtimeErr)
				return a.fail(eh)
			}
			if err != nil {
				return err
			}

			if printResult {
				fmt.Fprintf(a.stdout, "=> %d\n", result)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&entry, "entry", "e", "", "function to run")
	cmd.Flags().BoolVarP(&printResult, "result", "r", false, "print the entry function's result")

	return cmd
}
