package config

import (
	"cmp"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/perp-tools/bybit-screener/internal/model"
	"gopkg.in/yaml.v3"
)

// Duration decodes yaml strings like "5m" or "1h30m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("%w: duration must be a string", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%w: can't parse duration %q", err, s)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type ScreenerConfig struct {
	BaseURL         string   `yaml:"base_url"`
	Port            string   `yaml:"port"`
	LogLevel        string   `yaml:"log_level"`
	Periods         []string `yaml:"periods"`
	RefreshInterval Duration `yaml:"refresh_interval"`
	CacheTTL        Duration `yaml:"cache_ttl"`
	TurnoverFloor   float64  `yaml:"turnover_floor"`
	WatchlistSize   int      `yaml:"watchlist_size"`
	ReferenceSymbol string   `yaml:"reference_symbol"`
	QuoteSuffix     string   `yaml:"quote_suffix"`
}

const (
	_baseURLDefault         = "https://api.bybit.com"
	_portDefault            = "8000"
	_refreshIntervalDefault = Duration(5 * time.Minute)
	_cacheTTLDefault        = Duration(time.Minute)
	_turnoverFloorDefault   = 1000
	_watchlistSizeDefault   = 99
	_referenceSymbolDefault = "BTCUSDT"
	_quoteSuffixDefault     = "USDT"
)

var _periodsDefault = []string{"1h", "6h", "12h", "24h", "7d", "30d"}

func (c *ScreenerConfig) ValidateAndSetup() error {
	c.BaseURL = cmp.Or(os.Getenv("BYBIT_API"), c.BaseURL, _baseURLDefault)
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("%w: invalid base url", err)
	}

	c.Port = cmp.Or(os.Getenv("PORT"), c.Port, _portDefault)
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("%w: invalid port %q", err, c.Port)
	}

	if len(c.Periods) == 0 {
		c.Periods = _periodsDefault
	}
	if _, err := model.ParsePeriods(c.Periods); err != nil {
		return fmt.Errorf("%w: can't parse periods", err)
	}

	if c.RefreshInterval < 0 {
		return fmt.Errorf("negative refresh interval")
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = _refreshIntervalDefault
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = _cacheTTLDefault
	}
	if c.TurnoverFloor <= 0 {
		c.TurnoverFloor = _turnoverFloorDefault
	}
	if c.WatchlistSize <= 0 {
		c.WatchlistSize = _watchlistSizeDefault
	}
	c.ReferenceSymbol = cmp.Or(c.ReferenceSymbol, _referenceSymbolDefault)
	c.QuoteSuffix = cmp.Or(c.QuoteSuffix, _quoteSuffixDefault)

	return nil
}

// ParsedPeriods is valid only after ValidateAndSetup.
func (c *ScreenerConfig) ParsedPeriods() []model.Period {
	periods, _ := model.ParsePeriods(c.Periods)
	return periods
}

// LoadScreenerConfig reads the yaml config and applies env overrides and
// defaults. A missing file is not an error, the defaults describe a
// working setup on their own.
func LoadScreenerConfig(filename string) (ScreenerConfig, error) {
	var cfg ScreenerConfig

	input, err := os.ReadFile(filename)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("%w: can't read file", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(input, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: can't unmarshal config", err)
		}
	}

	if err := cfg.ValidateAndSetup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}
