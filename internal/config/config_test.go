package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomalden/twospades/engine"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, engine.DefaultTargetScore, cfg.Game.TargetScore)
	assert.Equal(t, engine.DefaultStrategyConfig(), cfg.Strategy)
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
listen_addr = ":9090"
debug = true

[game]
target_score = 500

[strategy]
max_bid = 8
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.ListenAddr)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, 500, cfg.Game.TargetScore)
	assert.Equal(t, 8, cfg.Strategy.MaxBid)

	// Untouched strategy fields keep their defaults.
	assert.Equal(t, engine.DefaultStrategyConfig().BlindBid, cfg.Strategy.BlindBid)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
listen_addr = ":9090"
`), 0o644))

	t.Setenv("LISTEN_ADDR", ":7070")
	t.Setenv("SESSION_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.ListenAddr)
	assert.Equal(t, "from-env", cfg.Server.SessionSecret)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy.MaxBid = 12
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Strategy.BlindBid = 3
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Game.TargetScore = -1
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Server.ListenAddr = ":6060"
	cfg.Strategy.MaxBid = 6
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6060", loaded.Server.ListenAddr)
	assert.Equal(t, 6, loaded.Strategy.MaxBid)
}
