package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "cadmcp"

var goos = runtime.GOOS

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	h, _ := os.UserHomeDir()
	return h
}

// xdgDir resolves an XDG base directory for cadmcp. On Windows, where
// AutoCAD runs, an unset XDG variable falls back to the platform directory
// returned by windowsDir instead of a dot-directory under HOME.
func xdgDir(envVar, fallbackSuffix string, windowsDir func() (string, error)) string {
	if v := os.Getenv(envVar); v != "" {
		return filepath.Join(v, appName)
	}
	if goos == "windows" && windowsDir != nil {
		if dir, err := windowsDir(); err == nil && dir != "" {
			return filepath.Join(dir, appName)
		}
	}
	return filepath.Join(homeDir(), fallbackSuffix, appName)
}

// ConfigDir returns the cadmcp config directory ($XDG_CONFIG_HOME/cadmcp).
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config", os.UserConfigDir)
}

// StateDir returns the cadmcp state directory ($XDG_STATE_HOME/cadmcp).
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"), os.UserCacheDir)
}

// ConfigFile returns the path to config.toml.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LogFile returns the default log file path used when file logging is on.
func LogFile() string {
	return filepath.Join(StateDir(), "cadmcp.log")
}

// EnsureDir creates a directory and parents if needed.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0700)
}
