package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kievzenit/impc/internal/ast"
	"github.com/kievzenit/impc/internal/compiler_errors"
	"github.com/kievzenit/impc/internal/interpreter"
	"github.com/kievzenit/impc/internal/lexer"
	"github.com/kievzenit/impc/internal/parser"
	"github.com/kievzenit/impc/internal/printer"
	"github.com/kievzenit/impc/internal/semantic_analyzer"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	promptMain = "imp> "
	promptCont = "...> "

	replFileName = "<repl>"
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	noteStyle   = lipgloss.NewStyle().Faint(true)
)

// lineReader is the part of liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// session holds the definitions entered so far. Statements and expressions
// run inside a fresh function added after those definitions, so globals start
// from zero on every run.
type session struct {
	globals []*ast.VarDecl
	funcs   []*ast.FunDecl
	runs    int
	opts    interpreter.Options

	stdout io.Writer
	stderr io.Writer
}

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read definitions and statements interactively",
		Long: `Read definitions and statements interactively.

Lines starting with int or long are global or function definitions and are kept
for the rest of the session. Anything else runs as the body of a function, or as
an expression whose value is printed. Globals are zero at the start of each run.

Commands: :print shows the session source, :reset forgets it, :quit leaves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			a.repl(ln)
			return nil
		},
	}
}

func (a *app) repl(ln lineReader) {
	s := &session{
		opts:   interpreter.Options{MaxCallDepth: a.cfg.Interpreter.MaxCallDepth},
		stdout: a.stdout,
		stderr: a.stderr,
	}

	fmt.Fprintln(a.stdout, bannerStyle.Render("impc repl")+noteStyle.Render("  (:quit to exit)"))

	for {
		input, ok := s.read(ln)
		if !ok {
			fmt.Fprintln(a.stdout)
			return
		}

		if history, ok := ln.(*liner.State); ok && strings.TrimSpace(input) != "" {
			history.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		}

		trimmed := strings.TrimSpace(input)
		switch {
		case trimmed == "":
			continue
		case trimmed == ":quit":
			return
		case trimmed == ":reset":
			s.globals, s.funcs = nil, nil
			fmt.Fprintln(a.stdout, noteStyle.Render("session cleared"))
			continue
		case trimmed == ":print":
			s.print()
			continue
		case strings.HasPrefix(trimmed, ":"):
			fmt.Fprintln(a.stdout, "unknown command, try :print, :reset or :quit")
			continue
		}

		a.logger.Debug("repl input", "lines", strings.Count(input, "\n")+1)
		s.eval(input)
	}
}

// read collects lines until they form a complete definition, statement list
// or expression, or until the parser fails on something other than running
// out of input.
func (s *session) read(ln lineReader) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}

		if s.incomplete(src) {
			continue
		}
		return src, true
	}
}

// incomplete reports whether no reading of src parses and at least one of
// them failed only because the input ended.
func (s *session) incomplete(src string) bool {
	waiting := false
	for _, candidate := range s.candidates(src) {
		_, err := s.parse(candidate)
		if err == nil {
			return false
		}
		waiting = waiting || parser.IsIncomplete(err)
	}
	return waiting
}

func isDefinition(input string) bool {
	first := lexer.NewLexer([]byte(input)).NextToken()
	return first.Kind == lexer.INT || first.Kind == lexer.LONG
}

// candidates returns the programs input may stand for, most likely first.
// Input starts on the first line so positions in reports match what was typed.
func (s *session) candidates(input string) []string {
	if isDefinition(input) {
		return []string{"main " + input}
	}

	entry := s.entry()
	return []string{
		fmt.Sprintf("main int %s() { %s\n}", entry, input),
		fmt.Sprintf("main long %s() { return (%s)\n}", entry, input),
	}
}

func (s *session) entry() string {
	return fmt.Sprintf("repl_%d", s.runs+1)
}

func (s *session) parse(src string) (*ast.Program, error) {
	return parser.NewParser(lexer.NewLexer([]byte(src))).ParseProgram()
}

// program joins the session definitions with extra ones. Globals always come
// before functions, whatever order they were entered in.
func (s *session) program(extra *ast.Program) *ast.Program {
	globals := append([]*ast.VarDecl{}, s.globals...)
	funcs := append([]*ast.FunDecl{}, s.funcs...)
	if extra != nil {
		globals = append(globals, extra.Globals.Decls...)
		funcs = append(funcs, extra.Funcs.Funcs...)
	}

	return &ast.Program{
		Globals: &ast.VarDeclList{Decls: globals},
		Funcs:   &ast.FunDeclList{Funcs: funcs},
	}
}

func (s *session) eval(input string) {
	var parsed *ast.Program
	var err error
	isExpression := false
	for i, candidate := range s.candidates(input) {
		parsed, err = s.parse(candidate)
		if err == nil {
			isExpression = i == 1
			break
		}
	}
	if err != nil {
		s.report(err)
		return
	}

	program := s.program(parsed)
	eh := compiler_errors.NewErrorHandler(s.stderr, replFileName)
	semantic_analyzer.NewSemanticAnalyzer(eh, program).Analyze()
	if eh.HasErrors() {
		eh.Report()
		return
	}

	if isDefinition(input) {
		s.globals = program.Globals.Decls
		s.funcs = program.Funcs.Funcs
		return
	}

	opts := s.opts
	opts.Entry = s.entry()
	s.runs++
	result, err := interpreter.NewInterpreter(program, s.stdout, opts).Run()
	if err != nil {
		s.report(err)
		return
	}

	if isExpression {
		fmt.Fprintln(s.stdout, resultStyle.Render(fmt.Sprintf("=> %d", result)))
	}
}

func (s *session) report(err error) {
	var compilerErr compiler_errors.CompilerError
	if !errors.As(err, &compilerErr) {
		fmt.Fprintln(s.stderr, "Error:", err)
		return
	}

	eh := compiler_errors.NewErrorHandler(s.stderr, replFileName)
	eh.AddError(compilerErr)
	eh.Report()
}

func (s *session) print() {
	opts := printer.DefaultOptions()
	opts.Style = printer.Source
	if err := printer.NewPrintVisitor(s.stdout, opts).Print(s.program(nil)); err != nil {
		s.report(err)
	}
}
