// Package config holds the shell's buffer limit profiles and the optional
// host configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Limits is the complete set of buffer bounds one shell instance runs
// under. Every buffer in the core is sized from here; nothing allocates
// past its limit.
type Limits struct {
	MaxLine     int // edit buffer and parser line length
	MaxArgs     int // argv entries per command
	MaxArg      int // single argument length after expansion
	HistorySize int // history ring capacity
	MaxVars     int // environment variable slots
	MaxVarName  int // variable name length
	MaxVarValue int // variable value length
}

// Embedded is the constrained profile used on flash-class targets.
func Embedded() Limits {
	return Limits{
		MaxLine:     256,
		MaxArgs:     16,
		MaxArg:      128,
		HistorySize: 20,
		MaxVars:     32,
		MaxVarName:  32,
		MaxVarValue: 128,
	}
}

// Desktop is the roomier profile for hosted use.
func Desktop() Limits {
	return Limits{
		MaxLine:     4096,
		MaxArgs:     256,
		MaxArg:      1024,
		HistorySize: 500,
		MaxVars:     256,
		MaxVarName:  64,
		MaxVarValue: 1024,
	}
}

// Dir returns the ushell configuration directory.
// Respects XDG_CONFIG_HOME on Unix, APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "ushell")
}

// InitFile returns the path to init.lua in the config directory.
func InitFile() string {
	return filepath.Join(Dir(), "init.lua")
}

// File is the optional YAML host configuration.
type File struct {
	Prompt      string            `yaml:"prompt"`
	HistorySize int               `yaml:"history_size"`
	Env         map[string]string `yaml:"env"`
	Scripts     []string          `yaml:"scripts"`
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads a config file. A missing file is not an error; it yields the
// zero File so every setting falls back to its default.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &f, nil
}
