// Package config loads the optional gosr config file. The file can set a
// default for the quiet flag and declare extra genomes beyond the builtin
// tables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the schema of the config file.
type Config struct {
	Quiet   bool              `toml:"quiet"`
	Genomes map[string]Genome `toml:"genomes"`
}

// Genome declares a custom genome as parallel chromosome and size lists.
// Chromosomes are listed in the desired sort order.
type Genome struct {
	Chromosomes []string `toml:"chromosomes"`
	Sizes       []int64  `toml:"sizes"`
}

// DefaultPath returns the default config location, or "" when the home
// directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gosr", "config.toml")
}

// Load reads the config at path. An empty path falls back to $GOSR_CONFIG
// and then the default location. A missing file is not an error and yields
// the zero config.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		path = os.Getenv("GOSR_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
