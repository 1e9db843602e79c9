package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGStateHome returns the XDG state home or a default fallback.
func XDGStateHome() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "state")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	if p := os.Getenv("YUFIN_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(XDGConfigHome(), "yufin", "config.toml")
}

// DefaultLogPath returns where the terminal player writes its log.
func DefaultLogPath() string {
	return filepath.Join(XDGStateHome(), "yufin", "yufin.log")
}
