package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type result struct {
	stdout string
	stderr string
	code   int
}

func writeSource(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}

	return path
}

func runApp(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("IMPC_CONFIG", "")

	var stdout, stderr bytes.Buffer
	a := newApp(strings.NewReader(stdin), &stdout, &stderr)

	code := 0
	a.exit = func(c int) { code = c }

	if err := a.execute(args); err != nil && code == 0 {
		code = 1
	}

	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func TestPrintCommand(t *testing.T) {
	file := writeSource(t, "f.imp", "main int g int f() { g = 1 return (g) }")

	res := runApp(t, "", "print", file)
	expected := "var int g;\nfun int f()\n  g = 1;\n  return (g)\nendfun\n"
	if res.code != 0 || res.stdout != expected {
		t.Fatalf("expected %q, got=%q (code %d, stderr %q)", expected, res.stdout, res.code, res.stderr)
	}

	res = runApp(t, "", "print", "--style", "source", "--indent", "4", file)
	expected = "main\nint g\nint f() {\n    g = 1\n    return (g)\n}\n"
	if res.code != 0 || res.stdout != expected {
		t.Fatalf("expected %q, got=%q (code %d, stderr %q)", expected, res.stdout, res.code, res.stderr)
	}

	res = runApp(t, "", "print", "--style", "tree", file)
	if res.code == 0 || !strings.Contains(res.stderr, "tree") {
		t.Fatalf("expected an unknown style error, got=%+v", res)
	}
}

func TestReadsStandardInput(t *testing.T) {
	res := runApp(t, "main int f() { return }", "check", "-")
	if res.code != 0 || res.stdout != "-: ok\n" {
		t.Fatalf("expected check to pass, got=%+v", res)
	}
}

func TestCheckReportsEverySemanticError(t *testing.T) {
	file := writeSource(t, "bad.imp", "main int f() {\n  x = 1\n  return (y)\n}")

	res := runApp(t, "", "check", file)
	if res.code != 1 {
		t.Fatalf("expected exit code 1, got=%d", res.code)
	}
	for _, expected := range []string{"variable x not defined", "variable y not defined"} {
		if !strings.Contains(res.stderr, expected) {
			t.Errorf("expected stderr to contain %q, got=%q", expected, res.stderr)
		}
	}
	if strings.Contains(res.stderr, "Error:") {
		t.Errorf("reported errors must not be printed twice, got=%q", res.stderr)
	}
}

func TestSyntaxErrorIsReported(t *testing.T) {
	file := writeSource(t, "bad.imp", "main int f( {")

	res := runApp(t, "", "print", file)
	if res.code != 1 || !strings.Contains(res.stderr, "unexpected") {
		t.Fatalf("expected a syntax error, got=%+v", res)
	}
}

func TestRunCommand(t *testing.T) {
	file := writeSource(t, "run.imp", `main
int twice(int a) { return (a * 2) }
int start() { printf("%d\n", twice(21)) return (7) }`)

	res := runApp(t, "", "run", "--result", file)
	if res.code != 0 || res.stdout != "42\n=> 7\n" {
		t.Fatalf("unexpected run result: %+v", res)
	}

	res = runApp(t, "", "run", "--entry", "twice", file)
	if res.code != 1 || !strings.Contains(res.stderr, "entry function twice must not take parameters") {
		t.Fatalf("expected an entry error, got=%+v", res)
	}
}

func TestRunReportsRuntimeError(t *testing.T) {
	file := writeSource(t, "div.imp", "main int f() {\n  return (1 / 0)\n}")

	res := runApp(t, "", "run", file)
	if res.code != 1 || !strings.Contains(res.stderr, "division by zero") {
		t.Fatalf("expected a runtime error, got=%+v", res)
	}
}

func TestTokensCommand(t *testing.T) {
	file := writeSource(t, "tokens.imp", "main int x")

	res := runApp(t, "", "tokens", file)
	expected := "1:1\tMAIN()\n1:6\tINT()\n1:10\tIDENT(x)\n1:11\tEOF()\n"
	if res.code != 0 || res.stdout != expected {
		t.Fatalf("expected %q, got=%q", expected, res.stdout)
	}

	file = writeSource(t, "bad.imp", "main @")
	res = runApp(t, "", "tokens", file)
	if res.code != 1 || !strings.Contains(res.stderr, "unrecognized character: '@'") {
		t.Fatalf("expected a lexical error, got=%+v", res)
	}
}

func TestDumpCommand(t *testing.T) {
	file := writeSource(t, "dump.imp", "main int f() { return (1) }")

	res := runApp(t, "", "dump", "--format", "yaml", file)
	if res.code != 0 || !strings.HasPrefix(res.stdout, "program:\n") || !strings.Contains(res.stdout, "return: 1") {
		t.Fatalf("unexpected yaml dump: %+v", res)
	}

	res = runApp(t, "", "dump", file)
	if res.code != 0 || !strings.Contains(res.stdout, "ast.Program{") {
		t.Fatalf("unexpected litter dump: %+v", res)
	}

	res = runApp(t, "", "dump", "--format", "xml", file)
	if res.code == 0 {
		t.Fatalf("expected an unknown format error")
	}
}

func TestConfigCommand(t *testing.T) {
	config := writeSource(t, "impc.toml", "[printer]\nindent = 4\n\n[interpreter]\nentry = \"start\"\n")

	res := runApp(t, "", "--config", config, "config")
	for _, expected := range []string{"indent: 4", "entry: start", "max_call_depth: 1000"} {
		if !strings.Contains(res.stdout, expected) {
			t.Errorf("expected config output to contain %q, got=%q", expected, res.stdout)
		}
	}

	bad := writeSource(t, "impc.toml", "[printer]\ncolour = true\n")
	res = runApp(t, "", "--config", bad, "config")
	if res.code == 0 || !strings.Contains(res.stderr, "unknown config keys") {
		t.Fatalf("expected an unknown key error, got=%+v", res)
	}
}

func TestConfigDrivesRunEntry(t *testing.T) {
	config := writeSource(t, "impc.toml", "[interpreter]\nentry = \"first\"\n")
	file := writeSource(t, "entry.imp", "main int first() { printf(\"%d\\n\", 1) } int second() { printf(\"%d\\n\", 2) }")

	res := runApp(t, "", "-c", config, "run", file)
	if res.code != 0 || res.stdout != "1\n" {
		t.Fatalf("expected the configured entry to run, got=%+v", res)
	}
}

type scriptedReader struct {
	lines   []string
	prompts []string
}

func (r *scriptedReader) Prompt(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}

	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func TestRepl(t *testing.T) {
	var stdout, stderr bytes.Buffer
	a := newApp(strings.NewReader(""), &stdout, &stderr)

	reader := &scriptedReader{lines: []string{
		"int sq(int a) {",
		"  return (a * a)",
		"}",
		"int x",
		`x = 3 printf("%d\n", sq(x))`,
		"sq(4) + 1",
		"y = 1",
		":print",
		":reset",
		"sq(2)",
		":quit",
		"never read",
	}}
	a.repl(reader)

	out := stdout.String()
	for _, expected := range []string{"9\n", "=> 17", "main\nint x\nint sq(int a) {\n  return (a * a)\n}\n"} {
		if !strings.Contains(out, expected) {
			t.Errorf("expected repl output to contain %q, got=%q", expected, out)
		}
	}

	errs := stderr.String()
	for _, expected := range []string{"variable y not defined", "function sq not defined"} {
		if !strings.Contains(errs, expected) {
			t.Errorf("expected repl errors to contain %q, got=%q", expected, errs)
		}
	}

	if reader.prompts[1] != promptCont || reader.prompts[2] != promptCont {
		t.Errorf("expected continuation prompts for an open function, got=%q", reader.prompts)
	}
	if len(reader.lines) != 1 {
		t.Errorf("expected :quit to stop reading, %d lines left", len(reader.lines))
	}
}
