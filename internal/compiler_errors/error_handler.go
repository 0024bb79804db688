package compiler_errors

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

type CompilerError interface {
	GetMessage() string
	GetLine() int
	GetColumn() int
}

type ErrorHandler interface {
	AddError(err CompilerError)
	HasErrors() bool
	Report()
	FailNow()
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	positionStyle = lipgloss.NewStyle().Faint(true)
)

type CompilerErrorHandler struct {
	errors   []CompilerError
	writer   io.Writer
	fileName string

	exit func(code int)
}

func NewErrorHandler(outputWriter io.Writer, fileName string) *CompilerErrorHandler {
	return &CompilerErrorHandler{
		errors:   make([]CompilerError, 0),
		writer:   outputWriter,
		fileName: fileName,

		exit: os.Exit,
	}
}

// WithExit replaces os.Exit, which FailNow calls after reporting.
func (eh *CompilerErrorHandler) WithExit(exit func(code int)) *CompilerErrorHandler {
	eh.exit = exit
	return eh
}

func (eh *CompilerErrorHandler) AddError(err CompilerError) {
	eh.errors = append(eh.errors, err)
}

func (eh *CompilerErrorHandler) HasErrors() bool {
	return len(eh.errors) > 0
}

func (eh *CompilerErrorHandler) Report() {
	fmt.Fprintln(eh.writer, headerStyle.Render("Build failed with errors:"))

	for _, err := range eh.errors {
		fmt.Fprintf(eh.writer, "%s %s %s\n",
			errorStyle.Render("ERROR:"),
			positionStyle.Render(eh.position(err)),
			err.GetMessage())
	}
}

func (eh *CompilerErrorHandler) FailNow() {
	eh.Report()
	eh.exit(1)
}

func (eh *CompilerErrorHandler) position(err CompilerError) string {
	if err.GetLine() == 0 {
		return eh.fileName + ":"
	}

	return fmt.Sprintf("%s:%d:%d:", eh.fileName, err.GetLine(), err.GetColumn())
}
