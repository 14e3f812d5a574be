package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/biofeedback/internal/config"
	"codeberg.org/mutker/biofeedback/internal/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "biofeedback.toml")
	err := os.WriteFile(configPath, []byte(content), 0o600)
	require.NoError(t, err)

	return configPath
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
sampling_rate = 25.0
log_level = "debug"
output = "json"
nats_url = "nats://broker:4222"
subject = "clinic.room1"
http_addr = ":9090"
`)

	// Set environment variable to point to the test config file
	t.Setenv("BIOFEEDBACK_CONFIG", configPath)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 25.0, cfg.SamplingRate, "Expected SamplingRate 25")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.Equal(t, "json", cfg.Output, "Expected Output json")
	assert.Equal(t, "nats://broker:4222", cfg.NATSURL)
	assert.Equal(t, "clinic.room1", cfg.Subject)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BIOFEEDBACK_CONFIG", "")

	cfg, err := config.Load(nil)
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultSamplingRate, cfg.SamplingRate)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
	assert.Equal(t, config.DefaultOutput, cfg.Output)
	assert.Equal(t, config.DefaultNATSURL, cfg.NATSURL)
	assert.Equal(t, config.DefaultSubject, cfg.Subject)
	assert.Equal(t, config.DefaultHTTPAddr, cfg.HTTPAddr)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	configPath := writeConfig(t, `
This is not a valid TOML file
`)

	_, err := config.Load(nil, config.WithConfigFile(configPath))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(nil, config.WithConfigFile(filepath.Join(t.TempDir(), "missing.toml")))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestInvalidLogLevel(t *testing.T) {
	configPath := writeConfig(t, `
log_level = "invalid"
`)

	_, err := config.Load(nil, config.WithConfigFile(configPath))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestInvalidSamplingRate(t *testing.T) {
	for _, rate := range []string{"0", "-30"} {
		t.Run(rate, func(t *testing.T) {
			t.Setenv("BIOFEEDBACK_CONFIG", "")
			t.Setenv("BIOFEEDBACK_SAMPLING_RATE", rate)

			_, err := config.Load(nil)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrInvalidSamplingRate))
		})
	}
}

func TestInvalidOutput(t *testing.T) {
	t.Setenv("BIOFEEDBACK_CONFIG", "")
	t.Setenv("BIOFEEDBACK_OUTPUT", "xml")

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidOutput))
}

func TestFlagsOverrideFile(t *testing.T) {
	configPath := writeConfig(t, `
sampling_rate = 25.0
log_level = "warning"
`)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	config.RegisterServeFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--config", configPath,
		"--log-level", "debug",
		"--subject", "lab",
	}))

	cfg, err := config.Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
	assert.Equal(t, 25.0, cfg.SamplingRate, "Expected SamplingRate from file")
	assert.Equal(t, "lab", cfg.Subject)
}

func TestEnvPrefixOption(t *testing.T) {
	t.Setenv("BIOFEEDBACK_CONFIG", "")
	t.Setenv("BIOTEST_SAMPLING_RATE", "64")

	cfg, err := config.Load(nil, config.WithEnvPrefix("BIOTEST"))
	require.NoError(t, err)
	assert.Equal(t, 64.0, cfg.SamplingRate)
}

func TestLogLevelIsValid(t *testing.T) {
	assert.True(t, config.LogLevelWarning.IsValid())
	assert.False(t, config.LogLevel("trace").IsValid())
	assert.Equal(t, "info", config.LogLevelInfo.String())
}
