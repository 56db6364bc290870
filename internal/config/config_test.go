package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eloqueue/internal/modules/matchmaker"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, matchmaker.DefaultConfig(), cfg.MatchMaker)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"http_addr": ":9090",
		"matchmaker": {
			"trigger_threshold": 4,
			"period": {"active": 5}
		}
	}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 4, cfg.MatchMaker.TriggerThreshold)
	assert.Equal(t, 5, cfg.MatchMaker.Period.Active)

	// Untouched keys keep their defaults.
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1000, cfg.MatchMaker.BaseElo)
	assert.Equal(t, 1.0, cfg.MatchMaker.Period.DutyCycle)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ELOQUEUE_HTTP_ADDR", ":7070")
	t.Setenv("ELOQUEUE_LOG_LEVEL", "debug")
	t.Setenv("ELOQUEUE_REDIS_ADDR", "redis:6379")
	t.Setenv("ELOQUEUE_REDIS_DB", "2")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.True(t, cfg.Redis.Enabled, "setting a redis address turns the publisher on")
}
