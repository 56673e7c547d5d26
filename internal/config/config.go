// Package config loads the optional YAML configuration of the run command.
// Flags override file values.
package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up in the working directory
// when no explicit path is provided.
const DefaultFile = ".tapt.yaml"

// Config is the run configuration.
type Config struct {
	// Disasm dumps the disassembled program before running it.
	Disasm bool `yaml:"disasm"`
	// NoResult suppresses printing the program's result value.
	NoResult bool `yaml:"no-result"`
	// Trace prints each executed instruction to stderr while running.
	Trace bool `yaml:"trace"`
}

// Load reads the configuration from path, or from DefaultFile when path is
// empty. A missing default file yields the zero configuration; a missing
// explicit file is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
