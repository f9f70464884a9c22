package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRootCmd creates a cobra.Command with the same persistent flags as the
// real root command so that Load can bind them during tests.
func newTestRootCmd() *cobra.Command {
	cmd := &cobra.Command{}
	pf := cmd.PersistentFlags()
	pf.String("config", "", "")
	pf.String("log-level", "info", "")
	pf.String("log-format", "text", "")
	pf.Bool("no-color", false, "")
	pf.BoolP("quiet", "q", false, "")

	return cmd
}

// writeTempConfig writes a YAML string to a temporary file and returns the path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

// isolateDiscovery moves into an empty directory and home so that
// auto-discovery cannot pick up a developer's own config file.
func isolateDiscovery(t *testing.T) {
	t.Helper()

	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.False(t, cfg.NoColor)
	assert.False(t, cfg.Quiet)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"debug level", func(c *Config) { c.LogLevel = "debug" }, ""},
		{"warn level", func(c *Config) { c.LogLevel = "warn" }, ""},
		{"error level", func(c *Config) { c.LogLevel = "error" }, ""},
		{"json format", func(c *Config) { c.LogFormat = "json" }, ""},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestEffectiveLogLevel(t *testing.T) {
	assert.Equal(t, "debug", (&Config{LogLevel: "debug"}).EffectiveLogLevel())
	assert.Equal(t, "error", (&Config{LogLevel: "debug", Quiet: true}).EffectiveLogLevel())
}

func TestLoad_DefaultsOnly(t *testing.T) {
	isolateDiscovery(t)

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_EnvOverridesDefault(t *testing.T) {
	isolateDiscovery(t)
	t.Setenv("CSVPRUNE_LOG_LEVEL", "debug")
	t.Setenv("CSVPRUNE_QUIET", "true")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Quiet)
}

func TestLoad_ConfigFile(t *testing.T) {
	p := writeTempConfig(t, "log-level: warn\nlog-format: json\nno-color: true\n")

	cfg, err := Load(nil, p)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, p, cfg.ConfigFile)
}

func TestLoad_AutoDiscoveredFile(t *testing.T) {
	isolateDiscovery(t)
	require.NoError(t, os.WriteFile(".csvprune.yaml", []byte("log-format: json\n"), 0o600))

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.NotEmpty(t, cfg.ConfigFile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_MalformedFile(t *testing.T) {
	p := writeTempConfig(t, ": invalid yaml :")

	_, err := Load(nil, p)
	require.Error(t, err)
}

func TestLoad_FlagOverridesAll(t *testing.T) {
	t.Setenv("CSVPRUNE_LOG_LEVEL", "debug")
	p := writeTempConfig(t, "log-level: warn\n")

	cmd := newTestRootCmd()
	require.NoError(t, cmd.PersistentFlags().Set("log-level", "error"))

	cfg, err := Load(cmd, p)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("CSVPRUNE_LOG_LEVEL", "debug")
	p := writeTempConfig(t, "log-level: warn\n")

	cfg, err := Load(nil, p)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidValueFromEnv(t *testing.T) {
	isolateDiscovery(t)
	t.Setenv("CSVPRUNE_LOG_FORMAT", "xml")

	_, err := Load(nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestContext_RoundTrip(t *testing.T) {
	cfg := &Config{LogLevel: "debug", LogFormat: "json"}
	ctx := NewContext(context.Background(), cfg)
	assert.Equal(t, cfg, FromContext(ctx))
}

func TestFromContext_FallbackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
