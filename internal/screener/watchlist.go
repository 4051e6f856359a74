package screener

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/perp-tools/bybit-screener/internal/model"
)

// MarketData is the upstream surface the screener depends on. All of it
// is fail-soft: empty or zero results, never errors.
type MarketData interface {
	Tickers(ctx context.Context) []model.Ticker
	Klines(ctx context.Context, symbol string, start, end time.Time, interval string) model.CandleSeries
	FundingRate(ctx context.Context, symbol string) float64
}

// SelectWatchlist ranks tradable symbols by 24h turnover and returns the
// top max symbols prefixed by the reference symbol. Symbols below the
// turnover floor and symbols not quoted in quoteSuffix are dropped. The
// reference is excluded from the ranking even when the snapshot lists it.
func SelectWatchlist(ctx context.Context, md MarketData, reference, quoteSuffix string, turnoverFloor float64, max int) []string {
	tickers := md.Tickers(ctx)

	turnover := make(map[string]float64, len(tickers))
	for _, t := range tickers {
		if !strings.HasSuffix(t.Symbol, quoteSuffix) {
			continue
		}
		if t.Symbol == reference {
			continue
		}
		if t.Turnover24h < turnoverFloor {
			continue
		}
		// Keeping the max dedupes repeated snapshot entries.
		if t.Turnover24h > turnover[t.Symbol] {
			turnover[t.Symbol] = t.Turnover24h
		}
	}

	symbols := make([]string, 0, len(turnover))
	for s := range turnover {
		symbols = append(symbols, s)
	}
	slices.SortFunc(symbols, func(a, b string) int {
		if turnover[a] != turnover[b] {
			if turnover[a] > turnover[b] {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})

	if len(symbols) > max {
		symbols = symbols[:max]
	}

	return append([]string{reference}, symbols...)
}
