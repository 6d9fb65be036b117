package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/expand"
)

var (
	homePath       string
	configHomePath string
	dataHomePath   string
	stateHomePath  string
)

type Config struct {
	// Heading depth that starts a new slide (1-6)
	BreakDepth int `yaml:"breakDepth,omitempty" json:"breakDepth,omitempty"`
	// Text size preset: S, M or L
	Size string `yaml:"size,omitempty" json:"size,omitempty"`
	// Conditions for per-document defaults
	Defaults []DefaultCondition `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	// command to convert code blocks to images
	CodeBlockToImageCommand string `yaml:"codeBlockToImageCommand,omitempty" json:"codeBlockToImageCommand,omitempty"`
	// address the serve command listens on
	Listen string `yaml:"listen,omitempty" json:"listen,omitempty"`
}

type DefaultCondition struct {
	If         string `json:"if"`                   // condition over frontmatter metadata
	BreakDepth int    `json:"breakDepth,omitempty"` // break depth to apply if condition is true
	Size       string `json:"size,omitempty"`       // size preset to apply if condition is true
}

func init() {
	var err error
	homePath, err = os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}
}

// Load loads the configuration from the config file.
// It searches for config files in the following order:
// 1. $XDG_CONFIG_HOME/podium/config-{profile}.yml
// 2. $XDG_CONFIG_HOME/podium/config.yml
// If no config file is found, it returns an empty Config struct.
func Load(profile string) (*Config, error) {
	var configBasePaths []string
	if profile != "" {
		configBasePaths = append(configBasePaths, filepath.Join(configPath(), fmt.Sprintf("config-%s", profile)))
	}
	configBasePaths = append(configBasePaths, filepath.Join(configPath(), "config"))
	cfg := &Config{}
	for _, basePath := range configBasePaths {
		for _, ext := range []string{".yml", ".yaml"} {
			configPath := basePath + ext
			if b, err := os.ReadFile(configPath); err == nil {
				if err := yaml.Unmarshal(expand.ExpandenvYAMLBytes(b), cfg); err != nil {
					return nil, fmt.Errorf("failed to unmarshal config: %w", err)
				}
				return cfg, nil
			}
		}
	}
	// If no config file is found, return an empty config
	return cfg, nil
}

// Resolve applies the configured defaults whose conditions match the
// document metadata, then falls back to the top-level settings. Later
// matching conditions win.
func (c *Config) Resolve(meta map[string]any) (breakDepth int, size string, err error) {
	breakDepth = c.BreakDepth
	size = c.Size
	for _, d := range c.Defaults {
		ok, err := evalCondition(d.If, meta)
		if err != nil {
			return 0, "", fmt.Errorf("failed to evaluate condition %q: %w", d.If, err)
		}
		if !ok {
			continue
		}
		if d.BreakDepth != 0 {
			breakDepth = d.BreakDepth
		}
		if d.Size != "" {
			size = d.Size
		}
	}
	if breakDepth == 0 {
		breakDepth = 1
	}
	return breakDepth, size, nil
}

// configPath returns the path to the configuration directory.
func configPath() string {
	if configHomePath != "" {
		return configHomePath
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		configHomePath = filepath.Join(v, "podium")
	} else {
		configHomePath = filepath.Join(homePath, ".config", "podium")
	}
	return configHomePath
}

// DataHomePath returns the path to the data home directory.
func DataHomePath() string {
	if dataHomePath != "" {
		return dataHomePath
	}
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		dataHomePath = filepath.Join(v, "podium")
	} else {
		dataHomePath = filepath.Join(homePath, ".local", "share", "podium")
	}
	return dataHomePath
}

func StateHomePath() string {
	if stateHomePath != "" {
		return stateHomePath
	}
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		stateHomePath = filepath.Join(v, "podium")
	} else {
		stateHomePath = filepath.Join(homePath, ".local", "state", "podium")
	}
	return stateHomePath
}
