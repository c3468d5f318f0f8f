package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points XDG_CONFIG_HOME and the working directory at fresh temp
// directories and clears BLUEBOOK_* variables.
func isolate(t *testing.T) (xdg, wd string) {
	t.Helper()
	xdg = t.TempDir()
	wd = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	for _, key := range envKeys {
		t.Setenv("BLUEBOOK_"+strings.ToUpper(key), "")
	}
	t.Chdir(wd)
	return xdg, wd
}

func TestGlobalPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/bluebook/bluebook.yml", GlobalPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	got := GlobalPath()
	assert.True(t, filepath.IsAbs(got))
	assert.True(t, strings.HasSuffix(got, filepath.Join(".config", "bluebook", "bluebook.yml")))
}

func TestProjectPath(t *testing.T) {
	assert.Equal(t, "bluebook.yml", ProjectPath())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.False(t, Exists())
}

func TestLoad_Precedence(t *testing.T) {
	xdg, wd := isolate(t)

	global := "data_dir: /var/lib/bluebook\ngateway: simulated\nsplash_delay: 1s\n"
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "bluebook"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "bluebook", "bluebook.yml"), []byte(global), 0644))

	project := "splash_delay: 250ms\ntimezone: Asia/Kathmandu\n"
	require.NoError(t, os.WriteFile(filepath.Join(wd, "bluebook.yml"), []byte(project), 0644))

	t.Setenv("BLUEBOOK_GATEWAY", "nats")
	t.Setenv("BLUEBOOK_SIMULATED_LATENCY", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, Exists())
	assert.Equal(t, "/var/lib/bluebook", cfg.DataDir)       // global
	assert.Equal(t, 250*time.Millisecond, cfg.SplashDelay) // project over global
	assert.Equal(t, "Asia/Kathmandu", cfg.Timezone)         // project
	assert.Equal(t, GatewayNATS, cfg.Gateway)               // env over global
	assert.Equal(t, 5*time.Second, cfg.SimulatedLatency)    // env
	assert.Equal(t, "info", cfg.LogLevel)                   // default
}

func TestLoad_InvalidFile(t *testing.T) {
	_, wd := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(wd, "bluebook.yml"), []byte("gateway: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestWriteProject_RoundTrip(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.Gateway = GatewaySimulated
	cfg.SplashDelay = 1500 * time.Millisecond
	require.NoError(t, WriteProject(cfg))

	data, err := os.ReadFile(ProjectPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "splash_delay: 1.5s")
	assert.NotContains(t, string(data), "log_file")

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestWriteGlobal(t *testing.T) {
	xdg, _ := isolate(t)

	require.NoError(t, WriteGlobal(Default()))
	_, err := os.Stat(filepath.Join(xdg, "bluebook", "bluebook.yml"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"simulated", func(c *Config) { c.Gateway = GatewaySimulated }, false},
		{"unknown gateway", func(c *Config) { c.Gateway = "http" }, true},
		{"negative splash", func(c *Config) { c.SplashDelay = -time.Second }, true},
		{"negative latency", func(c *Config) { c.SimulatedLatency = -time.Second }, true},
		{"utc", func(c *Config) { c.Timezone = "UTC" }, false},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := Default()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
