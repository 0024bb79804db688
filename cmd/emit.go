package main

import (
	"fmt"
	"os"

	"github.com/kievzenit/impc/internal/emitter"
	"github.com/spf13/cobra"
)

func (a *app) emitCmd() *cobra.Command {
	var output string
	var entry string

	cmd := &cobra.Command{
		Use:   "emit <file>",
		Short: "Compile a program to LLVM IR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, info, err := a.check(args[0])
			if err != nil {
				return err
			}

			opts := emitter.Options{
				ModuleName: a.cfg.Emitter.ModuleName,
				Entry:      a.cfg.Emitter.Entry,
				Verify:     a.cfg.Emitter.Verify,
			}
			if entry != "" {
				opts.Entry = entry
			}

			e := emitter.NewEmitter(program, info, opts)
			defer e.Dispose()

			module, err := e.Emit()
			if err != nil {
				return err
			}
			a.logger.Debug("emitted", "module", opts.ModuleName, "verified", opts.Verify)

			ir := module.String()
			if output == "" || output == "-" {
				_, err := fmt.Fprint(a.stdout, ir)
				return err
			}

			if err := os.WriteFile(output, []byte(ir), 0o644); err != nil {
				return fmt.Errorf("write IR: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&entry, "entry", "e", "", "function the generated main calls")

	return cmd
}
