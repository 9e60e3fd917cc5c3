package paths

import (
	"path/filepath"
	"testing"
)

func TestConfigFileUsesXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/config-home")
	t.Setenv("HOME", "/tmp/home")

	got := ConfigFile()
	want := filepath.Join("/tmp/config-home", "cadmcp", "config.toml")
	if got != want {
		t.Fatalf("ConfigFile() = %q, want %q", got, want)
	}
}

func TestConfigDirFallsBackToHomeDotConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/tmp/home")

	got := ConfigDir()
	want := filepath.Join("/tmp/home", ".config", "cadmcp")
	if got != want {
		t.Fatalf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestLogFileFallsBackToHomeLocalState(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", "/tmp/home")

	got := LogFile()
	want := filepath.Join("/tmp/home", ".local", "state", "cadmcp", "cadmcp.log")
	if got != want {
		t.Fatalf("LogFile() = %q, want %q", got, want)
	}
}

func TestWindowsFallsBackToPlatformDir(t *testing.T) {
	restore := goos
	goos = "windows"
	defer func() { goos = restore }()

	got := xdgDir("CADMCP_TEST_UNSET_XDG", ".config", func() (string, error) {
		return "/tmp/appdata", nil
	})
	want := filepath.Join("/tmp/appdata", "cadmcp")
	if got != want {
		t.Fatalf("xdgDir() = %q, want %q", got, want)
	}
}

func TestXDGVariableWinsOnWindows(t *testing.T) {
	restore := goos
	goos = "windows"
	defer func() { goos = restore }()
	t.Setenv("XDG_STATE_HOME", "/tmp/state-home")

	got := StateDir()
	want := filepath.Join("/tmp/state-home", "cadmcp")
	if got != want {
		t.Fatalf("StateDir() = %q, want %q", got, want)
	}
}
