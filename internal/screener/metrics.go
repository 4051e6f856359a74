package screener

import (
	"context"
	"math"
	"time"

	"github.com/perp-tools/bybit-screener/internal/logger"
	"github.com/perp-tools/bybit-screener/internal/model"
)

// Row holds the raw metric values for one symbol, one per period (a
// single value for funding_rate). A nil value is undefined, which is
// distinct from zero: empty candle data never shows up as 0% change.
type Row struct {
	Symbol string
	Values []*float64
}

// Result is the raw numeric table for one metric. Row order follows the
// watch-list, value order follows Periods. Formatting is the web layer's
// concern.
type Result struct {
	Metric  model.Metric
	Periods []model.Period
	Rows    []Row
}

// metricFunc computes one cell from the current window, the preceding
// window of equal span, and the reference symbol's current window. Only
// the series the metric needs are fetched and passed, the rest are nil.
type metricFunc func(cur, prev, ref model.CandleSeries) *float64

var metricFuncs = map[model.Metric]metricFunc{
	model.PriceChange:  priceChange,
	model.PriceRange:   priceRange,
	model.VolumeChange: volumeChange,
	model.Correlation:  correlation,
}

type Engine struct {
	md        MarketData
	reference string

	logger logger.Logger

	now func() time.Time
}

func NewEngine(md MarketData, reference string, logger logger.Logger) *Engine {
	return &Engine{
		md:        md,
		reference: reference,
		logger:    logger,
		now:       time.Now,
	}
}

// ComputeTable fills one cell per symbol and period, sequentially on
// purpose: the upstream calls are paced, not parallelized. A symbol whose
// data is missing yields nil cells, it never aborts the pass.
func (e *Engine) ComputeTable(ctx context.Context, symbols []string, metric model.Metric, periods []model.Period) Result {
	res := Result{
		Metric: metric,
		Rows:   make([]Row, 0, len(symbols)),
	}
	if metric.PerPeriod() {
		res.Periods = periods
	}

	if metric == model.FundingRate {
		for _, s := range symbols {
			rate := e.md.FundingRate(ctx, s)
			res.Rows = append(res.Rows, Row{Symbol: s, Values: []*float64{&rate}})
		}
		return res
	}

	now := e.now().UTC()

	// The reference window is the same for every symbol within one
	// period, fetch it once.
	refSeries := make(map[model.Period]model.CandleSeries, len(periods))
	if metric == model.Correlation {
		for _, p := range periods {
			refSeries[p] = e.md.Klines(ctx, e.reference, now.Add(-p.Duration()), now, p.KlineInterval())
		}
	}

	compute := metricFuncs[metric]
	for _, s := range symbols {
		row := Row{Symbol: s, Values: make([]*float64, 0, len(periods))}
		for _, p := range periods {
			span := p.Duration()
			start, end := now.Add(-span), now

			cur := e.md.Klines(ctx, s, start, end, p.KlineInterval())

			var prev model.CandleSeries
			if metric == model.VolumeChange {
				prev = e.md.Klines(ctx, s, start.Add(-span), start, p.KlineInterval())
			}

			row.Values = append(row.Values, compute(cur, prev, refSeries[p]))
		}
		res.Rows = append(res.Rows, row)
		e.logger.Debugf("computed %s for %s", metric, s)
	}

	return res
}

func priceChange(cur, _, _ model.CandleSeries) *float64 {
	if len(cur) == 0 {
		return nil
	}
	open := cur[0].Open
	if open == 0 {
		return nil
	}
	v := (cur[len(cur)-1].Close - open) / open * 100
	return &v
}

func priceRange(cur, _, _ model.CandleSeries) *float64 {
	if len(cur) == 0 {
		return nil
	}
	low := cur.MinLow()
	if low == 0 {
		return nil
	}
	v := (cur.MaxHigh() - low) / low * 100
	return &v
}

func volumeChange(cur, prev, _ model.CandleSeries) *float64 {
	if len(cur) == 0 {
		return nil
	}
	prevSum := prev.VolumeSum()
	if prevSum == 0 {
		return nil
	}
	v := (cur.VolumeSum() - prevSum) / prevSum * 100
	return &v
}

// correlation is the Pearson correlation of closing prices, aligned by
// candle timestamp, over raw closes rather than returns.
func correlation(cur, _, ref model.CandleSeries) *float64 {
	refClose := make(map[int64]float64, len(ref))
	for _, c := range ref {
		refClose[c.Ts.UnixMilli()] = c.Close
	}

	var xs, ys []float64
	for _, c := range cur {
		y, ok := refClose[c.Ts.UnixMilli()]
		if !ok {
			continue
		}
		xs = append(xs, c.Close)
		ys = append(ys, y)
	}
	if len(xs) < 2 {
		return nil
	}

	n := float64(len(xs))
	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= n
	meanY /= n

	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}

	denom := math.Sqrt(sxx * syy)
	if denom == 0 {
		return nil
	}
	v := sxy / denom
	return &v
}
