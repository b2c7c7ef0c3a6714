// Package config loads the appshell.yaml application file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "appshell.yaml"

// Config is the application configuration.
type Config struct {
	Identifier string        `yaml:"identifier" json:"identifier"`
	Host       HostConfig    `yaml:"host" json:"host"`
	Log        LogConfig     `yaml:"log" json:"log"`
	Plugins    PluginsConfig `yaml:"plugins" json:"plugins"`
}

// HostConfig configures the host runtime.
type HostConfig struct {
	Addr            string `yaml:"addr" json:"addr"`
	Transport       string `yaml:"transport" json:"transport"`
	ShutdownTimeout string `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// LogConfig configures the shell's own diagnostics.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// PluginsConfig groups per-plugin settings.
type PluginsConfig struct {
	Log     LogPluginConfig     `yaml:"log" json:"log"`
	Barcode BarcodePluginConfig `yaml:"barcode" json:"barcode"`
}

// LogPluginConfig configures the debug log plugin.
type LogPluginConfig struct {
	Level      string   `yaml:"level" json:"level"`
	Targets    []string `yaml:"targets" json:"targets"`
	Dir        string   `yaml:"dir" json:"dir"`
	MaxSizeMB  int      `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int      `yaml:"max_backups" json:"max_backups"`
}

// BarcodePluginConfig configures the barcode scanner plugin.
type BarcodePluginConfig struct {
	Formats []string `yaml:"formats" json:"formats"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Identifier: "appshell",
		Host: HostConfig{
			Addr:            "127.0.0.1:1430",
			Transport:       "http",
			ShutdownTimeout: "5s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Plugins: PluginsConfig{
			Log: LogPluginConfig{
				Level:      "info",
				Targets:    []string{"stdout", "logdir", "webview"},
				MaxSizeMB:  40,
				MaxBackups: 3,
			},
			Barcode: BarcodePluginConfig{
				Formats: []string{"QR_CODE", "EAN_13", "CODE_128"},
			},
		},
	}
}

// Load reads a configuration file (YAML or JSON) on top of the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	if c.Identifier == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	switch c.Host.Transport {
	case "http", "mcp":
	default:
		return fmt.Errorf("invalid host.transport %q: must be 'http' or 'mcp'", c.Host.Transport)
	}
	if _, err := c.ShutdownTimeout(); err != nil {
		return err
	}
	return nil
}

// ShutdownTimeout parses host.shutdown_timeout.
func (c Config) ShutdownTimeout() (time.Duration, error) {
	if c.Host.ShutdownTimeout == "" {
		return 5 * time.Second, nil
	}
	d, err := time.ParseDuration(c.Host.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid host.shutdown_timeout: %w", err)
	}
	return d, nil
}
