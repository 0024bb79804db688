package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "impc.toml"

// Config holds the settings of every pipeline phase.
type Config struct {
	Printer     PrinterConfig     `toml:"printer" yaml:"printer"`
	Interpreter InterpreterConfig `toml:"interpreter" yaml:"interpreter"`
	Emitter     EmitterConfig     `toml:"emitter" yaml:"emitter"`
}

// PrinterConfig holds the print visitor settings
type PrinterConfig struct {
	Style  string `toml:"style" yaml:"style"`
	Indent int    `toml:"indent" yaml:"indent"`
}

// InterpreterConfig holds the interpreter settings
type InterpreterConfig struct {
	Entry        string `toml:"entry" yaml:"entry"`
	MaxCallDepth int    `toml:"max_call_depth" yaml:"max_call_depth"`
}

// EmitterConfig holds the LLVM emitter settings
type EmitterConfig struct {
	ModuleName string `toml:"module_name" yaml:"module_name"`
	Entry      string `toml:"entry" yaml:"entry"`
	Verify     bool   `toml:"verify" yaml:"verify"`
}

func Default() *Config {
	return &Config{
		Printer: PrinterConfig{
			Style:  "outline",
			Indent: 2,
		},
		Interpreter: InterpreterConfig{
			MaxCallDepth: 1000,
		},
		Emitter: EmitterConfig{
			ModuleName: "main",
			Verify:     true,
		},
	}
}

// Load reads a TOML file over the defaults: keys the file leaves out keep
// their default value.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Discover loads path when it is set. Otherwise it tries IMPC_CONFIG and then
// DefaultFileName, and falls back to the defaults when neither exists.
func Discover(path string) (*Config, string, error) {
	if path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}

	candidates := []string{os.Getenv("IMPC_CONFIG"), DefaultFileName}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := Load(candidate)
			return cfg, candidate, err
		}
	}

	return Default(), "", nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Printer.Style) {
	case "outline", "source":
	default:
		return fmt.Errorf("printer.style must be outline or source, got %q", c.Printer.Style)
	}

	if c.Printer.Indent < 0 {
		return fmt.Errorf("printer.indent must not be negative, got %d", c.Printer.Indent)
	}

	if c.Interpreter.MaxCallDepth <= 0 {
		return fmt.Errorf("interpreter.max_call_depth must be positive, got %d", c.Interpreter.MaxCallDepth)
	}

	if c.Emitter.ModuleName == "" {
		return fmt.Errorf("emitter.module_name must not be empty")
	}

	return nil
}
