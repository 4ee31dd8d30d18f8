package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromCreatesDefault(t *testing.T) {
	t.Setenv(EnvBackendURL, "")
	t.Setenv(EnvRequestTimeout, "")
	t.Setenv(EnvHistoryEnabled, "")

	path := filepath.Join(t.TempDir(), "nested", DefaultConfigFile)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(path)
	assert.NoError(t, err, "default config should be written to disk")
}

func TestLoadFromKeepsDefaultsForMissingKeys(t *testing.T) {
	t.Setenv(EnvBackendURL, "")
	t.Setenv(EnvRequestTimeout, "")
	t.Setenv(EnvHistoryEnabled, "")

	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	data := []byte("backend:\n  base_url: http://10.0.0.5:9000\n  request_timeout: 45s\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.Backend.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, DefaultGreeting, cfg.Chat.Greeting)
	assert.Equal(t, 5, cfg.Chat.ScrollThreshold)
	assert.True(t, cfg.History.Enabled)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvBackendURL, "https://docs.example.com")
	t.Setenv(EnvRequestTimeout, "2m")
	t.Setenv(EnvHistoryEnabled, "false")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), DefaultConfigFile))
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 2*time.Minute, cfg.Backend.RequestTimeout)
	assert.False(t, cfg.History.Enabled)
}

func TestEnvironmentOverrideRejectsBadDuration(t *testing.T) {
	t.Setenv(EnvBackendURL, "")
	t.Setenv(EnvRequestTimeout, "soon")
	t.Setenv(EnvHistoryEnabled, "")

	_, err := LoadFrom(filepath.Join(t.TempDir(), DefaultConfigFile))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvRequestTimeout)
}

func TestLoadFromRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("backend: [unclosed"), 0644))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing base url",
			mutate:  func(c *Config) { c.Backend.BaseURL = "" },
			wantErr: "BaseURL",
		},
		{
			name:    "base url is not a url",
			mutate:  func(c *Config) { c.Backend.BaseURL = "localhost 8000" },
			wantErr: "BaseURL",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Backend.RequestTimeout = -time.Second },
			wantErr: "RequestTimeout",
		},
		{
			name:    "empty greeting",
			mutate:  func(c *Config) { c.Chat.Greeting = "" },
			wantErr: "Greeting",
		},
		{
			name:    "zero scroll threshold",
			mutate:  func(c *Config) { c.Chat.ScrollThreshold = 0 },
			wantErr: "ScrollThreshold",
		},
		{
			name:    "history too large",
			mutate:  func(c *Config) { c.History.MaxEntries = 10000 },
			wantErr: "MaxEntries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveToRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend.BaseURL = ""

	err := SaveTo(filepath.Join(t.TempDir(), DefaultConfigFile), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot save invalid config")
}
