package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in       string
		seconds  int64
		interval string
	}{
		{"1h", 3600, "1"},
		{"6h", 6 * 3600, "60"},
		{"24h", 86400, "60"},
		{"7d", 7 * 86400, "60"},
		{"30d", 30 * 86400, "60"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePeriod(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.seconds, p.Seconds())
			assert.Equal(t, tt.interval, p.KlineInterval())
			assert.Equal(t, tt.in, p.String())
		})
	}
}

func TestParsePeriodRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "h", "12", "0h", "-1h", "1w", "xd"} {
		_, err := ParsePeriod(in)
		assert.Error(t, err, in)
	}
}

// The span and the candle granularity must come from the same mapping:
// a window always holds a whole number of candles.
func TestPeriodSpanMatchesInterval(t *testing.T) {
	for _, in := range []string{"1h", "6h", "12h", "24h", "7d", "30d"} {
		p, err := ParsePeriod(in)
		require.NoError(t, err)
		assert.Zero(t, p.Duration()%p.IntervalDuration(), in)
	}
}

func TestParsePeriods(t *testing.T) {
	periods, err := ParsePeriods([]string{"1h", "24h"})
	require.NoError(t, err)
	assert.Equal(t, []Period{{Value: 1, Unit: Hour}, {Value: 24, Unit: Hour}}, periods)

	_, err = ParsePeriods([]string{"1h", "bogus"})
	assert.Error(t, err)
}

func TestIntervalDuration(t *testing.T) {
	p, err := ParsePeriod("1h")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, p.IntervalDuration())

	p, err = ParsePeriod("24h")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, p.IntervalDuration())
}
