// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LedgerConfig holds the connection settings for the ledger service.
type LedgerConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// LoadLedger reads the ledger settings from viper.
func LoadLedger() LedgerConfig {
	timeout := viper.GetDuration("ledger.timeout")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return LedgerConfig{
		BaseURL: viper.GetString("ledger.base_url"),
		APIKey:  viper.GetString("ledger.api_key"),
		Timeout: timeout,
	}
}

// DatabasePath returns the configured snapshot database path, defaulting to
// the standard config directory.
func DatabasePath() string {
	if p := viper.GetString("database.path"); p != "" {
		return ExpandPath(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "dapur.db"
	}
	return filepath.Join(home, ".config", "dapur", "sessions.db")
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
