package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.Metadata.Dir, "bundled metadata by default")
	assert.Equal(t, StrategyShuffle, cfg.Dispatch.Strategy)
	assert.Equal(t, 0.7, cfg.Generation.Temperature)
	assert.Equal(t, 0.9, cfg.Generation.TopP)
	assert.Equal(t, 128, cfg.Generation.NumPredict)
	assert.Equal(t, 10*time.Second, cfg.Client.ConnectionTimeout)
	assert.False(t, cfg.Logging.FileOutput)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_WithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Client, cfg.Client)
	assert.Empty(t, cfg.Filename)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	t.Setenv("OLLAFREE_METADATA_DIR", "/srv/ollama_json")
	t.Setenv("OLLAFREE_DISPATCH_STRATEGY", "sequential")
	t.Setenv("OLLAFREE_LOGGING_LEVEL", "debug")
	t.Setenv("OLLAFREE_CLIENT_RESPONSE_TIMEOUT", "15m")
	t.Setenv("OLLAFREE_GENERATION_NUM_PREDICT", "256")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/srv/ollama_json", cfg.Metadata.Dir)
	assert.Equal(t, StrategySequential, cfg.Dispatch.Strategy)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 15*time.Minute, cfg.Client.ResponseTimeout)
	assert.Equal(t, 256, cfg.Generation.NumPredict)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ollafree.yaml")
	content := `
metadata:
  dir: ./data
client:
  connection_timeout: 3s
generation:
  temperature: 0.2
logging:
  file_output: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Filename)
	assert.Equal(t, "./data", cfg.Metadata.Dir)
	assert.Equal(t, 3*time.Second, cfg.Client.ConnectionTimeout)
	assert.Equal(t, 0.2, cfg.Generation.Temperature)
	assert.Equal(t, 0.9, cfg.Generation.TopP, "unset keys keep defaults")
	assert.True(t, cfg.Logging.FileOutput)
}

func TestLoad_ConfigFileEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dispatch:\n  strategy: sequential\n"), 0o644))
	t.Setenv(EnvConfigFile, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StrategySequential, cfg.Dispatch.Strategy)
}

func TestLoadWithFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OLLAFREE_DISPATCH_STRATEGY", "sequential")
	t.Setenv("OLLAFREE_LOGGING_LEVEL", "error")

	newFlags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.String("metadata", "", "")
		fs.String("strategy", "", "")
		fs.String("log-level", "", "")
		return fs
	}

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--metadata", "/tmp/models", "--strategy", "shuffle"}))

	cfg, err := LoadWithFlags("", fs)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/models", cfg.Metadata.Dir)
	assert.Equal(t, StrategyShuffle, cfg.Dispatch.Strategy, "flag beats env")
	assert.Equal(t, "error", cfg.Logging.Level, "unset flag leaves env alone")

	fs = newFlags()
	require.NoError(t, fs.Parse([]string{"--strategy", "fastest"}))
	_, err = LoadWithFlags("", fs)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "sequential, shuffle")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dispatch:\n  strategy: weighted\n"), 0o644))

	_, err = Load(path)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "dispatch.strategy", verr.Field)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{name: "defaults", modify: func(c *Config) {}, valid: true},
		{name: "sequential strategy", modify: func(c *Config) { c.Dispatch.Strategy = StrategySequential }, valid: true},
		{name: "unknown strategy", modify: func(c *Config) { c.Dispatch.Strategy = "fastest" }},
		{name: "negative connect timeout", modify: func(c *Config) { c.Client.ConnectionTimeout = -time.Second }},
		{name: "negative response timeout", modify: func(c *Config) { c.Client.ResponseTimeout = -time.Second }},
		{name: "zero num_predict", modify: func(c *Config) { c.Generation.NumPredict = 0 }},
		{name: "unlimited num_predict", modify: func(c *Config) { c.Generation.NumPredict = -1 }, valid: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(cfg)
			if tc.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}
