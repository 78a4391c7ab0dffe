package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 10, cfg.ShortWaitSeconds)
	assert.Equal(t, 90, cfg.ExtensionSeconds)
	assert.Zero(t, cfg.RequestTimeout)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
base_url: http://localhost:8080/api
short_wait_seconds: 5
request_timeout: 30s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.BaseURL)
	assert.Equal(t, 5, cfg.ShortWaitSeconds)
	assert.Equal(t, 90, cfg.ExtensionSeconds, "unset keys keep defaults")
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, DefaultHistoryLimit, cfg.HistoryLimit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "zero short wait", body: "short_wait_seconds: 0\n"},
		{name: "negative extension", body: "extension_seconds: -1\n"},
		{name: "bad url", body: "base_url: not a url\n"},
		{name: "negative history", body: "history_limit: -5\n"},
		{name: "malformed yaml", body: "base_url: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandTilde("~/.config/x.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config/x.yaml"), got)

	got, err = ExpandTilde("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	got, err = ExpandTilde("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
