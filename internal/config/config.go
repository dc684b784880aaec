// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/vmunix/pickup/internal/selector"
)

// ErrNoRenamer is returned when daemon use requires a renamer command and none
// is configured.
var ErrNoRenamer = errors.New("renamer command not configured")

// Config is the root configuration structure.
type Config struct {
	Daemon  DaemonConfig  `toml:"daemon"`
	Renamer RenamerConfig `toml:"renamer"`
	Rules   RulesConfig   `toml:"rules"`
}

type DaemonConfig struct {
	Socket   string `toml:"socket"`
	LogLevel string `toml:"log_level"`
}

// RenamerConfig describes the external renaming tool. It receives the
// selected entry names on stdin, one per line, with the torrent directory as
// its working directory.
type RenamerConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// RulesConfig tunes the selection rules. Extra patterns and extensions are
// additive over the built-ins; metadata, when set, replaces the reserved
// filename list outright.
type RulesConfig struct {
	ExtraPatterns   map[string]string `toml:"extra_patterns"`
	ExtraExtensions []string          `toml:"extra_extensions"`
	Metadata        []string          `toml:"metadata"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the built-in configuration, used when no config file is
// present. Scanning works out of the box; only the renamer needs configuring.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Daemon.Socket == "" {
		c.Daemon.Socket = "/run/pickup/pickup.sock"
	}
	if c.Daemon.LogLevel == "" {
		c.Daemon.LogLevel = "info"
	}
}

// ValidateRenamer checks that the external renaming tool is configured.
func (c *Config) ValidateRenamer() error {
	if c.Renamer.Command == "" {
		return ErrNoRenamer
	}
	return nil
}

// RuleSet builds the selection rules from the built-ins plus this config's
// additions.
func (c *Config) RuleSet() selector.RuleSet {
	patterns := make([]selector.Pattern, 0, len(selector.DefaultPatterns)+len(c.Rules.ExtraPatterns))
	patterns = append(patterns, selector.DefaultPatterns...)

	// Sorted for deterministic rule order across restarts.
	names := make([]string, 0, len(c.Rules.ExtraPatterns))
	for name := range c.Rules.ExtraPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		patterns = append(patterns, selector.Pattern{Name: name, Glob: c.Rules.ExtraPatterns[name]})
	}

	extensions := append([]string{}, selector.DefaultExtensions...)
	extensions = append(extensions, c.Rules.ExtraExtensions...)

	metadata := c.Rules.Metadata
	if metadata == nil {
		metadata = selector.DefaultMetadata
	}

	return selector.NewRuleSet(patterns, extensions, metadata)
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
