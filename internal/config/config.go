// Package config loads sitetool settings from a YAML file. A missing file
// yields the defaults, which carry the file lists the maintenance scripts
// used to hardcode.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/corpeningc/sitetool/internal/conflict"
	"gopkg.in/yaml.v3"
)

const DefaultFileName = ".sitetool.yaml"

type Config struct {
	Resolve ResolveConfig `yaml:"resolve"`
	Check   CheckConfig   `yaml:"check"`
	Logging LoggingConfig `yaml:"logging"`
}

type ResolveConfig struct {
	Files  []string `yaml:"files"`
	Strict bool     `yaml:"strict"`
	Keep   string   `yaml:"keep"` // ours, theirs or both
}

type CheckConfig struct {
	NavbarFiles  []string `yaml:"navbar_files"`
	NavbarImport string   `yaml:"navbar_import"`
	LinkRoots    []string `yaml:"link_roots"`
	BuildConfig  string   `yaml:"build_config"`
	BuildMarker  string   `yaml:"build_marker"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Resolve: ResolveConfig{
			Files: []string{
				"src/AcmMitbApp.jsx",
				"src/firebase.js",
				"src/components/EventShowcase.jsx",
				"src/components/About.jsx",
				"src/components/PopupBanner.jsx",
				"src/components/Navbar.jsx",
				"src/SigSoftApp.jsx",
			},
			Keep: "ours",
		},
		Check: CheckConfig{
			NavbarFiles: []string{
				"src/App.jsx",
				"src/AboutPageApp.jsx",
				"src/AcmMitbApp.jsx",
				"src/AcmWApp.jsx",
				"src/NewsApp.jsx",
				"src/MembershipApp.jsx",
				"src/SigAiApp.jsx",
				"src/SigSoftApp.jsx",
				"src/TownhallApp.jsx",
			},
			NavbarImport: "import Navbar from './components/Navbar'",
			LinkRoots:    []string{"src"},
			BuildConfig:  "vite.config.js",
			BuildMarker:  "manualChunks",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load reads the config at path. Keys absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("SITETOOL_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
}

func (c *Config) Validate() error {
	if _, err := conflict.ParseChoice(c.Resolve.Keep); err != nil {
		return fmt.Errorf("resolve.keep: %w", err)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	return nil
}

// ResolveOptions turns the resolve section into resolver options.
func (c *Config) ResolveOptions() conflict.Options {
	choice, _ := conflict.ParseChoice(c.Resolve.Keep)
	opts := conflict.Options{Choice: choice}
	if c.Resolve.Strict {
		opts.Policy = conflict.Strict
	}
	return opts
}
