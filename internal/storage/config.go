// Package storage handles the on-disk state under ~/.aish: configuration,
// session transcripts, history and prompt overrides.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	ConfigFileName = "config"
	ConfigFileType = "yaml"
	AishDirName    = ".aish"

	SessionDirName = "sessions"
	PromptsDirName = "prompts"
	HistoryName    = "history"
	RCFileName     = "aishrc"
)

// Config holds the application configuration.
type Config struct {
	Shell    ShellConfig    `mapstructure:"shell"`
	AI       AIConfig       `mapstructure:"ai"`
	Behavior BehaviorConfig `mapstructure:"behavior"`
	History  HistoryConfig  `mapstructure:"history"`
}

// ShellConfig selects the underlying POSIX shell.
type ShellConfig struct {
	Path string `mapstructure:"path"`
}

// AIConfig selects and configures the assistant backend.
type AIConfig struct {
	Provider string `mapstructure:"provider"` // "claude" | "openai"
	Command  string `mapstructure:"command"`  // CLI executable for the claude provider
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
	Timeout  int    `mapstructure:"timeout"` // seconds
}

// BehaviorConfig holds interaction switches.
type BehaviorConfig struct {
	// Unattended runs AI-generated commands without confirmation (the
	// safety gate still applies).
	Unattended bool `mapstructure:"unattended"`
	// SaveSessions records a transcript of executed commands per session.
	SaveSessions bool `mapstructure:"save_sessions"`
}

// HistoryConfig bounds the persisted command history.
type HistoryConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
}

// ConfigDir returns the aish state directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, AishDirName), nil
}

// LoadConfig reads the configuration from dir, applying defaults for
// anything unset. A missing config file is not an error.
func LoadConfig(dir string) (*Config, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileType)
	v.AddConfigPath(dir)

	v.SetDefault("shell.path", "bash")

	v.SetDefault("ai.provider", "claude")
	v.SetDefault("ai.command", "claude")
	v.SetDefault("ai.model", "gpt-4o")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.timeout", 120)

	v.SetDefault("behavior.unattended", false)
	v.SetDefault("behavior.save_sessions", true)

	v.SetDefault("history.max_entries", 1000)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
