package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kievzenit/impc/internal/ast"
	"github.com/kievzenit/impc/internal/compiler_errors"
	"github.com/kievzenit/impc/internal/lexer"
	"github.com/kievzenit/impc/internal/parser"
	"github.com/kievzenit/impc/internal/semantic_analyzer"
)

// readSource reads a file, or standard input when the name is "-".
func (a *app) readSource(fileName string) ([]byte, error) {
	if fileName == "-" {
		return io.ReadAll(a.stdin)
	}

	fileData, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	return fileData, nil
}

func (a *app) newErrorHandler(fileName string) *compiler_errors.CompilerErrorHandler {
	return compiler_errors.NewErrorHandler(a.stderr, fileName).WithExit(a.exit)
}

// fail reports everything the handler collected and exits. It returns only
// when the exit function does.
func (a *app) fail(eh compiler_errors.ErrorHandler) error {
	eh.FailNow()
	return errReported
}

func (a *app) parse(fileName string, source []byte) (*ast.Program, error) {
	a.logger.Debug("parsing", "file", fileName, "bytes", len(source))

	program, err := parser.NewParser(lexer.NewLexer(source)).ParseProgram()
	if err == nil {
		a.logger.Debug("parsed",
			"globals", len(program.Globals.Decls),
			"functions", len(program.Funcs.Funcs))
		return program, nil
	}

	var compilerErr compiler_errors.CompilerError
	if !errors.As(err, &compilerErr) {
		return nil, err
	}

	eh := a.newErrorHandler(fileName)
	eh.AddError(compilerErr)
	return nil, a.fail(eh)
}

// check parses and analyzes a file, reporting every semantic error at once.
func (a *app) check(fileName string) (*ast.Program, *semantic_analyzer.Info, error) {
	source, err := a.readSource(fileName)
	if err != nil {
		return nil, nil, err
	}

	program, err := a.parse(fileName, source)
	if err != nil {
		return nil, nil, err
	}

	eh := a.newErrorHandler(fileName)
	info := semantic_analyzer.NewSemanticAnalyzer(eh, program).Analyze()
	if eh.HasErrors() {
		return nil, nil, a.fail(eh)
	}
	a.logger.Debug("analyzed", "functions", len(info.Funcs), "globals", len(info.Globals))

	return program, info, nil
}

func (a *app) parseFile(fileName string) (*ast.Program, error) {
	source, err := a.readSource(fileName)
	if err != nil {
		return nil, err
	}

	return a.parse(fileName, source)
}
