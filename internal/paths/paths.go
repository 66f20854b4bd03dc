// Package paths resolves where navtree keeps its configuration, its
// database and its JSONL exports.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".navtree"
	DefaultDataDirName   = ".navtree-db"
)

// File and directory names inside the resolved directories.
const (
	ConfigFileName = "config.yaml"
	ExportDirName  = "export"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "NAVTREE_CONFIG_DIR"
	EnvDataDir   = "NAVTREE_DATA_DIR"
)

// appName names the per-user platform directory.
const appName = "navtree"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/navtree (fallback ~/.config/navtree)
// macOS:   ~/Library/Application Support/navtree
// Windows: %APPDATA%/navtree
func DefaultConfigDir() (string, error) {
	if platformDir.goos == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > NAVTREE_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config.yaml data_dir > NAVTREE_DATA_DIR > $(CWD)/.navtree-db.
//
// The working-directory default gives every project its own tree.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	for _, v := range []string{flag, configYAMLValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the path of config.yaml inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// ExportDir returns dir made absolute, or the default export directory
// inside dataDir when dir is empty.
func ExportDir(dir, dataDir string) (string, error) {
	if dir == "" {
		return filepath.Join(dataDir, ExportDirName), nil
	}
	return filepath.Abs(dir)
}
