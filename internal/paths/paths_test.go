package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/prism", got)
	})

	t.Run("falls back to ~/.config when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "prism"), got)
	})
}

func TestDefaultConfigDir_Darwin(t *testing.T) {
	if runtime.GOOS != "darwin" {
		t.Skip("darwin-only test")
	}

	dir, err := os.UserConfigDir()
	require.NoError(t, err)

	got, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "prism"), got)
}

func TestResolveConfigDir(t *testing.T) {
	t.Run("flag wins over env", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/tmp/env-config")
		got, err := ResolveConfigDir("/tmp/flag-config")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/flag-config", got)
	})

	t.Run("env wins over default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/tmp/env-config")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/env-config", got)
	})

	t.Run("default when nothing set", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		want, err := DefaultConfigDir()
		require.NoError(t, err)

		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestResolveConfigDir_RelativePathsMadeAbsolute(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	t.Run("relative flag", func(t *testing.T) {
		got, err := ResolveConfigDir("rel-config")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(cwd, "rel-config"), got)
	})

	t.Run("relative env", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "rel-env-config")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(cwd, "rel-env-config"), got)
	})
}

func TestPlatformDirOverride(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	orig := platformDir.homeDir
	defer func() { platformDir.homeDir = orig }()
	platformDir.homeDir = func() (string, error) { return "/tmp/fake-home", nil }

	t.Setenv("XDG_CONFIG_HOME", "")
	got, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/fake-home/.config/prism", got)
}
