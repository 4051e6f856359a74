package bybit

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/perp-tools/bybit-screener/internal/logger"
	"github.com/perp-tools/bybit-screener/internal/model"
	"github.com/perp-tools/bybit-screener/internal/monitoring"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const (
	_tickersURL = "/v5/market/tickers"
	_klineURL   = "/v5/market/kline"

	_category  = "linear"
	_pageLimit = 200
)

// Client reads Bybit's public v5 market data endpoints. Every method is
// fail-soft: transport and parse failures degrade to empty or zero
// results so a metric pass can still produce partial tables.
type Client struct {
	c *resty.Client

	rateLimiter ratelimit.Limiter // public endpoints allow 600 req/5s, we stay far below

	logger logger.Logger
}

func NewClient(baseURL string, logger logger.Logger) *Client {
	client := resty.New().
		SetLogger(logger).
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)

	return &Client{
		c:           client,
		rateLimiter: ratelimit.New(50, ratelimit.Per(time.Second)),
		logger:      logger,
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, out any) error {
	c.rateLimiter.Take()

	resp, err := c.c.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(endpoint)
	if err != nil {
		monitoring.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: can't send request", err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	if resp.IsError() {
		monitoring.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("unexpected response status: %s", resp.Status())
	}

	if err := sonic.Unmarshal(resp.Bytes(), out); err != nil {
		monitoring.UpstreamRequests.WithLabelValues(endpoint, "malformed").Inc()
		return fmt.Errorf("%w: can't decode response", err)
	}

	monitoring.UpstreamRequests.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

// Tickers returns the full linear-category snapshot. Entries whose
// turnover doesn't parse are kept with zero turnover so they fall below
// any liquidity floor.
func (c *Client) Tickers(ctx context.Context) []model.Ticker {
	var res tickersResponse
	if err := c.get(ctx, _tickersURL, map[string]string{"category": _category}, &res); err != nil {
		c.logger.Warnf("%s: can't fetch tickers", err)
		return nil
	}

	tickers := make([]model.Ticker, 0, len(res.Result.List))
	for _, e := range res.Result.List {
		if e.Symbol == "" {
			continue
		}
		turnover, _ := strconv.ParseFloat(e.Turnover24h, 64)
		funding, _ := strconv.ParseFloat(e.FundingRate, 64)
		last, _ := strconv.ParseFloat(e.LastPrice, 64)
		tickers = append(tickers, model.Ticker{
			Symbol:      e.Symbol,
			LastPrice:   last,
			Turnover24h: turnover,
			FundingRate: funding,
		})
	}

	return tickers
}

// FundingRate returns the latest funding rate for one symbol, 0 when the
// upstream has nothing usable.
func (c *Client) FundingRate(ctx context.Context, symbol string) float64 {
	var res tickersResponse
	params := map[string]string{"category": _category, "symbol": symbol}
	if err := c.get(ctx, _tickersURL, params, &res); err != nil {
		c.logger.Warnf("%s: can't fetch funding rate for %s", err, symbol)
		return 0
	}

	for _, e := range res.Result.List {
		if e.Symbol != symbol {
			continue
		}
		rate, err := strconv.ParseFloat(e.FundingRate, 64)
		if err != nil {
			return 0
		}
		return rate
	}

	return 0
}

// Klines fetches candles for [start, end), paging past the 200-row limit
// by advancing the window start beyond the last received timestamp. The
// result is sorted ascending and deduplicated by timestamp. On failure it
// returns whatever was accumulated so far, which on the first page means
// an empty series.
func (c *Client) Klines(ctx context.Context, symbol string, start, end time.Time, interval string) model.CandleSeries {
	var series model.CandleSeries
	seen := make(map[int64]struct{})

	cursor := start
	for cursor.Before(end) {
		params := map[string]string{
			"category": _category,
			"symbol":   symbol,
			"interval": interval,
			"start":    strconv.FormatInt(cursor.UnixMilli(), 10),
			"end":      strconv.FormatInt(end.UnixMilli(), 10),
			"limit":    strconv.Itoa(_pageLimit),
		}

		var res klineResponse
		if err := c.get(ctx, _klineURL, params, &res); err != nil {
			c.logger.Warnf("%s: can't fetch klines for %s", err, symbol)
			break
		}
		if len(res.Result.List) == 0 {
			break
		}

		var pageMax int64
		for _, row := range res.Result.List {
			candle, ok := parseKlineRow(row)
			if !ok {
				continue
			}
			ms := candle.Ts.UnixMilli()
			if ms > pageMax {
				pageMax = ms
			}
			if _, dup := seen[ms]; dup {
				continue
			}
			seen[ms] = struct{}{}
			series = append(series, candle)
		}

		// No advance past the cursor means the upstream is done.
		if pageMax < cursor.UnixMilli() {
			break
		}
		if len(res.Result.List) < _pageLimit {
			break
		}
		cursor = time.UnixMilli(pageMax + 1)
	}

	slices.SortFunc(series, func(a, b model.Candle) int {
		return a.Ts.Compare(b.Ts)
	})

	return series
}

func parseKlineRow(row []string) (model.Candle, bool) {
	if len(row) < 7 {
		return model.Candle{}, false
	}

	ms, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return model.Candle{}, false
	}

	fields := make([]float64, 6)
	for i := range fields {
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return model.Candle{}, false
		}
		fields[i] = v
	}

	return model.Candle{
		Ts:       time.UnixMilli(ms).UTC(),
		Open:     fields[0],
		High:     fields[1],
		Low:      fields[2],
		Close:    fields[3],
		Volume:   fields[4],
		Turnover: fields[5],
	}, true
}
