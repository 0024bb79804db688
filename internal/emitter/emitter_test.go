package emitter

import (
	"strings"
	"testing"

	"github.com/kievzenit/impc/internal/compiler_errors"
	"github.com/kievzenit/impc/internal/lexer"
	"github.com/kievzenit/impc/internal/parser"
	"github.com/kievzenit/impc/internal/semantic_analyzer"
)

type failingErrorHandler struct {
	t *testing.T
}

func (eh *failingErrorHandler) AddError(err compiler_errors.CompilerError) {
	eh.t.Fatalf("unexpected semantic error: %s", err.GetMessage())
}
func (eh *failingErrorHandler) HasErrors() bool { return false }
func (eh *failingErrorHandler) Report()         {}
func (eh *failingErrorHandler) FailNow()        {}

func emit(t *testing.T, input string, opts Options) (string, error) {
	t.Helper()

	program, err := parser.NewParser(lexer.NewLexer([]byte(input))).ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram(%q) returned error: %v", input, err)
	}

	info := semantic_analyzer.NewSemanticAnalyzer(&failingErrorHandler{t: t}, program).Analyze()

	e := NewEmitter(program, info, opts)
	defer e.Dispose()

	module, err := e.Emit()
	if err != nil {
		return "", err
	}

	return module.String(), nil
}

const sample = `main
long total
long fact(int n) {
	if (n <= 1) { return (1) }
	return (n * fact(n - 1))
}
int start() {
	int i
	while i < 3 do
		total = total + fact(i)
		i = i + 1
	} endwhile
	for (0, 10, 2) { printf("%d\n", ifexp(total == 4, 1, 0)) }
	return (total)
}`

func TestEmitVerifiedModule(t *testing.T) {
	ir, err := emit(t, sample, Options{ModuleName: "sample", Verify: true})
	if err != nil {
		t.Fatalf("Emit returned error: %v", err)
	}

	for _, expected := range []string{
		"define i64 @fact(i32 %n)",
		"define i32 @start()",
		"define i32 @main()",
		"declare i32 @printf(",
		"@total = internal global i64 0",
		"phi i64",
	} {
		if !strings.Contains(ir, expected) {
			t.Errorf("expected IR to contain %q, got:\n%s", expected, ir)
		}
	}
}

func TestEmitDeadCodeAfterReturn(t *testing.T) {
	_, err := emit(t, `main int f() { return (1) printf("%d\n", 2) }`, Options{Verify: true})
	if err != nil {
		t.Fatalf("Emit returned error: %v", err)
	}
}

func TestEmitEntry(t *testing.T) {
	if _, err := emit(t, sample, Options{Entry: "nope"}); err == nil {
		t.Fatalf("expected an error for an unknown entry")
	}
	if _, err := emit(t, sample, Options{Entry: "fact"}); err == nil {
		t.Fatalf("expected an error for an entry with parameters")
	}
}

func TestEmitForGuards(t *testing.T) {
	ir, err := emit(t, `main long f(long step) {
	long n
	for (9223372036854775806, 9223372036854775807, step) { n = n + 1 }
	return (n)
}
int start() { return (f(2)) }`, Options{Verify: true})
	if err != nil {
		t.Fatalf("Emit returned error: %v", err)
	}

	for _, expected := range []string{
		"forzero",
		"call void @llvm.trap()",
		"unreachable",
		"forwrapped",
		"declare void @llvm.trap()",
	} {
		if !strings.Contains(ir, expected) {
			t.Errorf("expected IR to contain %q, got:\n%s", expected, ir)
		}
	}
}
