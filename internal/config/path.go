package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName        = "repo-bootstrap"
	configFileName = "config.toml"
)

// Dir returns the folder holding the user-level config file.
func Dir() string {
	if override := os.Getenv(envConfigDir); override != "" {
		return override
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", appName)
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName)
		}
		return filepath.Join(home, ".config", appName)
	}
}

// DefaultPath is the config file read when neither --config nor
// REPO_BOOTSTRAP_CONFIG names one.
func DefaultPath() string {
	return filepath.Join(Dir(), configFileName)
}
