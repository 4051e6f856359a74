package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScreenerConfigDefaults(t *testing.T) {
	cfg, err := LoadScreenerConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.bybit.com", cfg.BaseURL)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, []string{"1h", "6h", "12h", "24h", "7d", "30d"}, cfg.Periods)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval.Std())
	assert.Equal(t, time.Minute, cfg.CacheTTL.Std())
	assert.Equal(t, 1000.0, cfg.TurnoverFloor)
	assert.Equal(t, 99, cfg.WatchlistSize)
	assert.Equal(t, "BTCUSDT", cfg.ReferenceSymbol)
	assert.Equal(t, "USDT", cfg.QuoteSuffix)
	assert.Len(t, cfg.ParsedPeriods(), 6)
}

func TestLoadScreenerConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screener.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9100"
periods: ["1h", "24h"]
refresh_interval: 30s
cache_ttl: 10s
watchlist_size: 5
`), 0o600))

	cfg, err := LoadScreenerConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, []string{"1h", "24h"}, cfg.Periods)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval.Std())
	assert.Equal(t, 10*time.Second, cfg.CacheTTL.Std())
	assert.Equal(t, 5, cfg.WatchlistSize)
}

func TestLoadScreenerConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("BYBIT_API", "https://api.bybit.nl")

	cfg, err := LoadScreenerConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "https://api.bybit.nl", cfg.BaseURL)
}

func TestLoadScreenerConfigRejectsBadValues(t *testing.T) {
	for name, body := range map[string]string{
		"bad period":   `periods: ["1x"]`,
		"bad duration": `refresh_interval: later`,
		"bad port":     `port: "http"`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "screener.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			_, err := LoadScreenerConfig(path)
			assert.Error(t, err)
		})
	}
}
