// Package config loads the process configuration: defaults, an optional
// TOML file, then CHATFLOW_ environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the resolved process configuration.
type Config struct {
	Server struct {
		Addr      string `koanf:"addr"`
		BaseURL   string `koanf:"base_url"`
		StaticDir string `koanf:"static_dir"`
	} `koanf:"server"`

	Line struct {
		ChannelSecret string `koanf:"channel_secret"`
		ChannelToken  string `koanf:"channel_token"`
	} `koanf:"line"`

	Graph struct {
		Path string `koanf:"path"`
	} `koanf:"graph"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
	} `koanf:"redis"`
}

// Load resolves the configuration. When configPath is empty the default
// locations are probed instead.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"server.addr":       ":8080",
		"server.static_dir": "static",
		"graph.path":        "resource/chatflow.yaml",
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./chatflow.toml", "$HOME/.chatflow.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	k.Load(env.Provider("CHATFLOW_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "CHATFLOW_")), "__", ".", -1)
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the fields serving traffic requires.
func (c *Config) Validate() error {
	if c.Line.ChannelSecret == "" {
		return fmt.Errorf("line channel_secret is required")
	}
	if c.Line.ChannelToken == "" {
		return fmt.Errorf("line channel_token is required")
	}
	if c.Graph.Path == "" {
		return fmt.Errorf("graph path is required")
	}
	return nil
}
