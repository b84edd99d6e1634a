package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port    int      `env:"TEST_CFG_PORT" envDefault:"8080"`
	Backend string   `env:"TEST_CFG_BACKEND" envDefault:"redis"`
	Brokers []string `env:"TEST_CFG_BROKERS" envDefault:"a:1,b:2" envSeparator:","`
	Debug   bool     `env:"TEST_CFG_DEBUG" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "redis", cfg.Backend)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Brokers)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_BACKEND", "memory")
	t.Setenv("TEST_CFG_DEBUG", "true")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "memory", cfg.Backend)
	assert.True(t, cfg.Debug)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadWithPrefix(t *testing.T) {
	t.Setenv("CLI_TEST_CFG_PORT", "7070")

	var cfg testConfig
	require.NoError(t, LoadWithPrefix(&cfg, "CLI_"))

	assert.Equal(t, 7070, cfg.Port)
}
