package screener

import (
	"context"
	"testing"
	"time"

	"github.com/perp-tools/bybit-screener/internal/logger"
	"github.com/perp-tools/bybit-screener/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarketData struct {
	klinesFn   func(symbol string, start, end time.Time, interval string) model.CandleSeries
	tickers    []model.Ticker
	funding    map[string]float64
	klineCalls int
}

func (f *fakeMarketData) Tickers(context.Context) []model.Ticker {
	return f.tickers
}

func (f *fakeMarketData) Klines(_ context.Context, symbol string, start, end time.Time, interval string) model.CandleSeries {
	f.klineCalls++
	if f.klinesFn == nil {
		return nil
	}
	return f.klinesFn(symbol, start, end, interval)
}

func (f *fakeMarketData) FundingRate(_ context.Context, symbol string) float64 {
	return f.funding[symbol]
}

func testLogger(t *testing.T) logger.Logger {
	t.Helper()
	l, _, err := logger.NewZapLogger(logger.Error)
	require.NoError(t, err)
	return l
}

func hourlySeries(base time.Time, closes ...float64) model.CandleSeries {
	series := make(model.CandleSeries, 0, len(closes))
	for i, c := range closes {
		series = append(series, model.Candle{
			Ts:     base.Add(time.Duration(i) * time.Hour),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 10,
		})
	}
	return series
}

func scaled(s model.CandleSeries, k float64) model.CandleSeries {
	out := make(model.CandleSeries, len(s))
	for i, c := range s {
		out[i] = c
		out[i].Open *= k
		out[i].High *= k
		out[i].Low *= k
		out[i].Close *= k
	}
	return out
}

func newTestEngine(md MarketData, reference string, t *testing.T) *Engine {
	e := NewEngine(md, reference, testLogger(t))
	e.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestEmptyDataYieldsNilForEveryMetric(t *testing.T) {
	md := &fakeMarketData{}
	e := newTestEngine(md, "BTCUSDT", t)
	periods := []model.Period{{Value: 1, Unit: model.Hour}, {Value: 24, Unit: model.Hour}}

	for _, m := range []model.Metric{model.PriceChange, model.PriceRange, model.VolumeChange, model.Correlation} {
		res := e.ComputeTable(context.Background(), []string{"XRPUSDT"}, m, periods)
		require.Len(t, res.Rows, 1, m)
		require.Len(t, res.Rows[0].Values, 2, m)
		for _, v := range res.Rows[0].Values {
			assert.Nil(t, v, m)
		}
	}
}

func TestPriceChange(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	series := model.CandleSeries{
		{Ts: base, Open: 100, High: 112, Low: 99, Close: 104},
		{Ts: base.Add(time.Hour), Open: 104, High: 115, Low: 101, Close: 110},
	}

	t.Run("last close against first open", func(t *testing.T) {
		v := priceChange(series, nil, nil)
		require.NotNil(t, v)
		assert.InDelta(t, 10.0, *v, 1e-9)
	})

	t.Run("scale invariant", func(t *testing.T) {
		v := priceChange(series, nil, nil)
		scaledV := priceChange(scaled(series, 1234.5), nil, nil)
		require.NotNil(t, v)
		require.NotNil(t, scaledV)
		assert.InDelta(t, *v, *scaledV, 1e-9)
	})

	t.Run("zero open is undefined", func(t *testing.T) {
		zeroOpen := model.CandleSeries{{Ts: base, Open: 0, Close: 10}}
		assert.Nil(t, priceChange(zeroOpen, nil, nil))
	})

	t.Run("single candle is enough", func(t *testing.T) {
		one := model.CandleSeries{{Ts: base, Open: 100, Close: 105}}
		v := priceChange(one, nil, nil)
		require.NotNil(t, v)
		assert.InDelta(t, 5.0, *v, 1e-9)
	})
}

func TestPriceRange(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	series := model.CandleSeries{
		{Ts: base, Open: 100, High: 120, Low: 95, Close: 104},
		{Ts: base.Add(time.Hour), Open: 104, High: 110, Low: 80, Close: 110},
	}

	v := priceRange(series, nil, nil)
	require.NotNil(t, v)
	assert.InDelta(t, 50.0, *v, 1e-9) // (120-80)/80

	zeroLow := model.CandleSeries{{Ts: base, High: 10, Low: 0}}
	assert.Nil(t, priceRange(zeroLow, nil, nil))
}

func TestVolumeChange(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cur := model.CandleSeries{{Ts: base, Volume: 100}, {Ts: base.Add(time.Hour), Volume: 50}}
	prev := model.CandleSeries{{Ts: base.Add(-time.Hour), Volume: 100}}

	v := volumeChange(cur, prev, nil)
	require.NotNil(t, v)
	assert.InDelta(t, 50.0, *v, 1e-9)

	t.Run("zero previous volume is undefined, not infinity", func(t *testing.T) {
		assert.Nil(t, volumeChange(cur, nil, nil))
		assert.Nil(t, volumeChange(cur, model.CandleSeries{{Ts: base, Volume: 0}}, nil))
	})

	t.Run("empty current window is undefined", func(t *testing.T) {
		assert.Nil(t, volumeChange(nil, prev, nil))
	})
}

func TestCorrelation(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := hourlySeries(base, 100, 102, 101, 105, 104)
	b := hourlySeries(base, 50, 53, 51, 55, 54)

	t.Run("symmetric", func(t *testing.T) {
		ab := correlation(a, nil, b)
		ba := correlation(b, nil, a)
		require.NotNil(t, ab)
		require.NotNil(t, ba)
		assert.InDelta(t, *ab, *ba, 1e-12)
	})

	t.Run("self correlation is exactly one", func(t *testing.T) {
		v := correlation(a, nil, a)
		require.NotNil(t, v)
		assert.Equal(t, 1.0, *v)
	})

	t.Run("fewer than two aligned points is undefined", func(t *testing.T) {
		assert.Nil(t, correlation(a[:1], nil, b))
		disjoint := hourlySeries(base.Add(100*time.Hour), 1, 2, 3)
		assert.Nil(t, correlation(a, nil, disjoint))
	})

	t.Run("constant series has no correlation", func(t *testing.T) {
		flat := hourlySeries(base, 5, 5, 5, 5, 5)
		assert.Nil(t, correlation(flat, nil, b))
	})
}

func TestFundingRateTable(t *testing.T) {
	md := &fakeMarketData{funding: map[string]float64{"BTCUSDT": 0.0001, "ETHUSDT": -0.0002}}
	e := newTestEngine(md, "BTCUSDT", t)

	res := e.ComputeTable(context.Background(), []string{"BTCUSDT", "ETHUSDT"},
		model.FundingRate, []model.Period{{Value: 1, Unit: model.Hour}})

	assert.Empty(t, res.Periods)
	require.Len(t, res.Rows, 2)
	require.Len(t, res.Rows[0].Values, 1)
	assert.Equal(t, 0.0001, *res.Rows[0].Values[0])
	assert.Equal(t, -0.0002, *res.Rows[1].Values[0])
	assert.Zero(t, md.klineCalls)
}

// The dashboard scenario: ETHUSDT moved 100 -> 110 over the hour while
// the BTCUSDT fetch came back empty.
func TestComputeTableScenario(t *testing.T) {
	base := time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC)
	md := &fakeMarketData{
		klinesFn: func(symbol string, start, end time.Time, interval string) model.CandleSeries {
			if symbol != "ETHUSDT" {
				return nil
			}
			return model.CandleSeries{
				{Ts: base, Open: 100, High: 111, Low: 99, Close: 105},
				{Ts: base.Add(30 * time.Minute), Open: 105, High: 112, Low: 100, Close: 110},
			}
		},
	}
	e := newTestEngine(md, "BTCUSDT", t)
	periods := []model.Period{{Value: 1, Unit: model.Hour}, {Value: 24, Unit: model.Hour}}

	res := e.ComputeTable(context.Background(), []string{"BTCUSDT", "ETHUSDT"}, model.PriceChange, periods)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, "BTCUSDT", res.Rows[0].Symbol)
	assert.Equal(t, "ETHUSDT", res.Rows[1].Symbol)

	for _, v := range res.Rows[0].Values {
		assert.Nil(t, v)
	}
	require.NotNil(t, res.Rows[1].Values[0])
	assert.InDelta(t, 10.0, *res.Rows[1].Values[0], 1e-9)
}

func TestComputeTableUsesMatchingWindows(t *testing.T) {
	var windows []time.Duration
	md := &fakeMarketData{
		klinesFn: func(symbol string, start, end time.Time, interval string) model.CandleSeries {
			windows = append(windows, end.Sub(start))
			return nil
		},
	}
	e := newTestEngine(md, "BTCUSDT", t)
	periods := []model.Period{{Value: 1, Unit: model.Hour}, {Value: 7, Unit: model.Day}}

	e.ComputeTable(context.Background(), []string{"SOLUSDT"}, model.PriceChange, periods)

	require.Len(t, windows, 2)
	assert.Equal(t, time.Hour, windows[0])
	assert.Equal(t, 7*24*time.Hour, windows[1])
}
