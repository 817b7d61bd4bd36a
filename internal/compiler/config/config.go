// Package config loads the optional project configuration file. The
// precedence chain is: command-line flag, then configuration value,
// then built-in default; the flag layer is applied by the command, this
// package only supplies the lower two tiers.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/lumen-lang/lumenc/internal/compiler/errs"
)

// DefaultPath is searched in the working directory when no --config
// flag is given. Its absence is not an error.
const DefaultPath = "compiler.toml"

// Config holds the settings a project file may supply.
type Config struct {
	Output     string   `toml:"output"`
	LogLevel   string   `toml:"log-level"`
	Linker     string   `toml:"linker"`
	LinkerArgs []string `toml:"linker-args"`
}

// Default returns the built-in defaults, the bottom of the precedence
// chain.
func Default() Config {
	return Config{
		Output:   "a.out",
		LogLevel: "info",
		Linker:   "cc",
	}
}

// Load reads the configuration at path and overlays it onto the
// built-in defaults. explicit marks a path the user named with
// --config: an unreadable explicit path is an IOError, while a missing
// default path silently yields the defaults.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, &errs.IOError{Path: path, Err: err}
	}

	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return cfg, &errs.IOError{Path: path, Err: err}
	}

	if file.Output != "" {
		cfg.Output = file.Output
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.Linker != "" {
		cfg.Linker = file.Linker
	}
	if len(file.LinkerArgs) > 0 {
		cfg.LinkerArgs = file.LinkerArgs
	}

	return cfg, nil
}
