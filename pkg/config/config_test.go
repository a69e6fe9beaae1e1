package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int      `env:"TCFG_PORT" envDefault:"8080"`
	Store    string   `env:"TCFG_STORE" envDefault:"mongo"`
	Brokers  []string `env:"TCFG_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	Tracing  bool     `env:"TCFG_TRACING" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "mongo", cfg.Store)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.False(t, cfg.Tracing)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("TCFG_PORT", "9191")
	t.Setenv("TCFG_STORE", "redis")
	t.Setenv("TCFG_BROKERS", "k1:9092,k2:9092")
	t.Setenv("TCFG_TRACING", "true")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, "redis", cfg.Store)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers)
	assert.True(t, cfg.Tracing)
}

type requiredConfig struct {
	Secret string `env:"TCFG_SECRET,required"`
}

func TestLoad_RequiredMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TCFG_PORT", "eighty")

	var cfg testConfig
	require.Error(t, Load(&cfg))
}
