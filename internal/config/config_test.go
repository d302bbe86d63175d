package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20, cfg.Scan.ContextWindow)
	assert.True(t, cfg.Scan.Save)
	assert.False(t, cfg.Scan.CaseSensitive)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
scan:
  context_window: 5
  case_sensitive: true
  workers: 2
serve:
  port: 8088
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Console, "unset keys keep their defaults")
	assert.Equal(t, 5, cfg.Scan.ContextWindow)
	assert.True(t, cfg.Scan.CaseSensitive)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.Equal(t, 16, cfg.Scan.MatcherCacheSize)
	assert.Equal(t, 8088, cfg.Serve.Port)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "scan: [", "parse config"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"negative context", "scan:\n  context_window: -1\n", "context_window"},
		{"zero workers", "scan:\n  workers: 0\n", "workers"},
		{"zero cache", "scan:\n  matcher_cache_size: 0\n", "matcher_cache_size"},
		{"port range", "serve:\n  port: 70000\n", "serve.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadOptional(writeConfig(t, "scan:\n  verify: true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Scan.Verify)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Scan.ContextWindow = 7

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "context_window: 7")

	loaded, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLogConfig_FilePath(t *testing.T) {
	const fallback = "/proj/.acscan/log/acscan.log"
	tests := []struct {
		name string
		cfg  LogConfig
		want string
	}{
		{"off by default", Default().Log, ""},
		{"to_file uses fallback", LogConfig{ToFile: true}, fallback},
		{"explicit file wins", LogConfig{ToFile: true, File: "custom.log"}, "custom.log"},
		{"explicit file without to_file", LogConfig{File: "custom.log"}, "custom.log"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.FilePath(fallback))
		})
	}
}

func TestLoad_ToFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  to_file: true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Log.ToFile)
	assert.Empty(t, cfg.Log.File)
}
