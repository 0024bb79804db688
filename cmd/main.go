package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kievzenit/impc/internal/config"
	"github.com/spf13/cobra"
)

// errReported means the diagnostics were already written, so main only sets
// the exit status.
var errReported = errors.New("errors reported")

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	exit   func(code int)

	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
}

func newApp(stdin io.Reader, stdout io.Writer, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		exit:   os.Exit,

		cfg:    config.Default(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "impc",
		Short: "impc: parser, checker, interpreter and LLVM emitter for imp",
		Long: `impc reads imp programs: a main marker, global int/long declarations and
functions built from assignments, if, while, for, printf, calls, ifexp and return.

Commands:
  tokens  Print the token stream of a source file
  print   Print the syntax tree as an outline or as re-parseable source
  dump    Dump the syntax tree as Go values (litter) or YAML
  check   Parse and check names, calls and declarations
  run     Interpret a program
  emit    Compile a program to LLVM IR
  repl    Read definitions and statements interactively
  config  Show the effective configuration
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: $IMPC_CONFIG or ./"+config.DefaultFileName+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "trace pipeline phases on stderr")

	root.AddCommand(
		a.tokensCmd(),
		a.printCmd(),
		a.dumpCmd(),
		a.checkCmd(),
		a.runCmd(),
		a.emitCmd(),
		a.replCmd(),
		a.configCmd(),
	)

	return root
}

func (a *app) setup() error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))

	cfg, path, err := config.Discover(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if path != "" {
		a.logger.Debug("config loaded", "path", path)
	} else {
		a.logger.Debug("no config file, using defaults")
	}

	return nil
}

func (a *app) execute(args []string) error {
	root := a.rootCmd()
	root.SetArgs(args)

	err := root.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(a.stderr, "Error:", err)
	}

	return err
}

func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := a.execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
