package printer

import (
	"bytes"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestYAMLDump(t *testing.T) {
	program := parse(t, `main
long g
int f(int a) {
	if (a < 2) { return } else { printf("%d\n", ifexp(true, a, g(1))) }
	return (a * 3)
}`)

	var buf bytes.Buffer
	if err := NewYAMLVisitor().Encode(&buf, program, 2); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	var doc struct {
		Program struct {
			Globals   []map[string]map[string]any `yaml:"globals"`
			Functions []struct {
				Fun struct {
					Name   string              `yaml:"name"`
					Return string              `yaml:"return"`
					Params []map[string]string `yaml:"params"`
					Body   struct {
						Stmts []map[string]any `yaml:"stmts"`
					} `yaml:"body"`
				} `yaml:"fun"`
			} `yaml:"functions"`
		} `yaml:"program"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("dump is not valid YAML: %v\n%s", err, buf.String())
	}

	if len(doc.Program.Globals) != 1 || doc.Program.Globals[0]["var"]["type"] != "long" {
		t.Fatalf("unexpected globals, got=%v", doc.Program.Globals)
	}

	if len(doc.Program.Functions) != 1 {
		t.Fatalf("expected 1 function, got=%d", len(doc.Program.Functions))
	}
	fun := doc.Program.Functions[0].Fun
	if fun.Name != "f" || fun.Return != "int" {
		t.Fatalf("unexpected function header, got=%s %s", fun.Return, fun.Name)
	}
	if len(fun.Params) != 1 || fun.Params[0]["name"] != "a" || fun.Params[0]["type"] != "int" {
		t.Fatalf("unexpected params, got=%v", fun.Params)
	}

	stmts := fun.Body.Stmts
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got=%d", len(stmts))
	}
	if _, ok := stmts[0]["if"]; !ok {
		t.Fatalf("expected an if statement first, got=%v", stmts[0])
	}

	ret, ok := stmts[1]["return"].(map[string]any)
	if !ok {
		t.Fatalf("expected a return with a value, got=%v", stmts[1])
	}
	binary := ret["binary"].(map[string]any)
	if binary["op"] != "*" || binary["right"] != 3 {
		t.Fatalf("unexpected return value, got=%v", binary)
	}
}
