package compiler_errors

import (
	"bytes"
	"strings"
	"testing"
)

type fakeError struct {
	message      string
	line, column int
}

func (e *fakeError) GetMessage() string { return e.message }
func (e *fakeError) GetLine() int       { return e.line }
func (e *fakeError) GetColumn() int     { return e.column }

func TestFailNowReportsAndExits(t *testing.T) {
	var out bytes.Buffer
	exitCode := -1

	eh := NewErrorHandler(&out, "prog.imp").WithExit(func(code int) { exitCode = code })
	if eh.HasErrors() {
		t.Fatalf("new handler should not have errors")
	}

	eh.AddError(&fakeError{message: "first", line: 3, column: 7})
	eh.AddError(&fakeError{message: "second"})
	eh.FailNow()

	if exitCode != 1 {
		t.Fatalf("expected exit code 1, got=%d", exitCode)
	}

	report := out.String()
	for _, want := range []string{"Build failed with errors:", "prog.imp:3:7:", "first", "second"} {
		if !strings.Contains(report, want) {
			t.Errorf("report does not contain %q:\n%s", want, report)
		}
	}
	if strings.Index(report, "first") > strings.Index(report, "second") {
		t.Errorf("errors reported out of order:\n%s", report)
	}
}
