package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "impc.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Printer.Style != "outline" || cfg.Printer.Indent != 2 {
		t.Errorf("unexpected printer defaults: %+v", cfg.Printer)
	}
	if cfg.Interpreter.MaxCallDepth != 1000 || cfg.Interpreter.Entry != "" {
		t.Errorf("unexpected interpreter defaults: %+v", cfg.Interpreter)
	}
	if cfg.Emitter.ModuleName != "main" || !cfg.Emitter.Verify {
		t.Errorf("unexpected emitter defaults: %+v", cfg.Emitter)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[printer]
style = "source"

[interpreter]
entry = "start"

[emitter]
verify = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Printer.Style != "source" {
		t.Errorf("Printer.Style = %v, want source", cfg.Printer.Style)
	}
	if cfg.Printer.Indent != 2 {
		t.Errorf("Printer.Indent = %v, want the default 2", cfg.Printer.Indent)
	}
	if cfg.Interpreter.Entry != "start" {
		t.Errorf("Interpreter.Entry = %v, want start", cfg.Interpreter.Entry)
	}
	if cfg.Interpreter.MaxCallDepth != 1000 {
		t.Errorf("Interpreter.MaxCallDepth = %v, want the default 1000", cfg.Interpreter.MaxCallDepth)
	}
	if cfg.Emitter.Verify {
		t.Errorf("Emitter.Verify = true, want false")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"syntax", "[printer\n", "failed to parse config"},
		{"unknown key", "[printer]\ncolour = true\n", "unknown config keys: printer.colour"},
		{"bad style", "[printer]\nstyle = \"pretty\"\n", "printer.style"},
		{"negative indent", "[printer]\nindent = -1\n", "printer.indent"},
		{"zero depth", "[interpreter]\nmax_call_depth = 0\n", "interpreter.max_call_depth"},
		{"empty module", "[emitter]\nmodule_name = \"\"\n", "emitter.module_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("Load() expected an error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.errPart)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("Load() error = %v, want config file not found", err)
	}
}

func TestDiscover(t *testing.T) {
	t.Setenv("IMPC_CONFIG", "")
	chdir(t, t.TempDir())

	cfg, path, err := Discover("")
	if err != nil || path != "" || cfg.Printer.Style != "outline" {
		t.Fatalf("Discover() = %+v, %q, %v; want defaults", cfg, path, err)
	}

	if err := os.WriteFile(DefaultFileName, []byte("[printer]\nindent = 4\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, path, err = Discover("")
	if err != nil || path != DefaultFileName || cfg.Printer.Indent != 4 {
		t.Fatalf("Discover() = %+v, %q, %v; want %s with indent 4", cfg, path, err, DefaultFileName)
	}

	explicit := writeConfig(t, "[printer]\nindent = 8\n")
	t.Setenv("IMPC_CONFIG", explicit)

	cfg, path, err = Discover("")
	if err != nil || path != explicit || cfg.Printer.Indent != 8 {
		t.Fatalf("Discover() = %+v, %q, %v; want IMPC_CONFIG to win", cfg, path, err)
	}
}
