package screener

import (
	"context"
	"sync"
	"time"

	"github.com/perp-tools/bybit-screener/internal/logger"
	"github.com/perp-tools/bybit-screener/internal/model"
	"github.com/perp-tools/bybit-screener/internal/monitoring"
)

// ComputeFunc produces a full table for one metric. It is slow (many
// upstream calls) and must never be invoked twice concurrently for the
// same metric.
type ComputeFunc func(ctx context.Context, metric model.Metric) Result

// Cache holds the most recent Result per metric with a freshness window.
// Policy is pull-on-demand with TTL: a read of a stale entry triggers
// exactly one recomputation; readers arriving while a computation is in
// flight get the previous table when one exists and otherwise wait for
// the in-flight result. The mutex guards only the metadata swap, never
// the computation itself.
type Cache struct {
	mu      sync.Mutex
	entries map[model.Metric]*cacheEntry

	ttl     time.Duration
	compute ComputeFunc

	logger logger.Logger
	now    func() time.Time
}

type cacheEntry struct {
	result     Result
	computedAt time.Time
	fresh      bool

	computing bool
	done      chan struct{}
}

func NewCache(ttl time.Duration, compute ComputeFunc, logger logger.Logger) *Cache {
	return &Cache{
		entries: make(map[model.Metric]*cacheEntry),
		ttl:     ttl,
		compute: compute,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the table for metric, recomputing it first if no fresh
// copy exists. The returned bool is false only when the metric has never
// been computed and the caller chose not to wait via ctx cancellation.
func (c *Cache) Get(ctx context.Context, metric model.Metric) (Result, bool) {
	c.mu.Lock()
	e, ok := c.entries[metric]
	if !ok {
		e = &cacheEntry{}
		c.entries[metric] = e
	}

	if e.fresh && c.now().Sub(e.computedAt) < c.ttl {
		res := e.result
		c.mu.Unlock()
		monitoring.CacheHits.Inc()
		return res, true
	}

	if e.computing {
		// Serve the previous table rather than stacking readers
		// behind the in-flight pass.
		if e.fresh {
			res := e.result
			c.mu.Unlock()
			return res, true
		}
		done := e.done
		c.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return Result{}, false
		}

		c.mu.Lock()
		res, ok := e.result, e.fresh
		c.mu.Unlock()
		return res, ok
	}

	e.computing = true
	e.done = make(chan struct{})
	c.mu.Unlock()

	c.recompute(ctx, metric, e)

	c.mu.Lock()
	res := e.result
	c.mu.Unlock()
	return res, true
}

// Refresh recomputes one metric unless a computation is already in
// flight, in which case it is a no-op.
func (c *Cache) Refresh(ctx context.Context, metric model.Metric) {
	c.mu.Lock()
	e, ok := c.entries[metric]
	if !ok {
		e = &cacheEntry{}
		c.entries[metric] = e
	}
	if e.computing {
		c.mu.Unlock()
		return
	}
	e.computing = true
	e.done = make(chan struct{})
	c.mu.Unlock()

	c.recompute(ctx, metric, e)
}

// RefreshAll warms every metric sequentially, trading latency for staying
// inside the upstream pacing.
func (c *Cache) RefreshAll(ctx context.Context) {
	for _, m := range model.Metrics {
		if ctx.Err() != nil {
			return
		}
		c.Refresh(ctx, m)
	}
}

func (c *Cache) recompute(ctx context.Context, metric model.Metric, e *cacheEntry) {
	started := c.now()
	res := c.compute(ctx, metric)
	monitoring.CacheRecomputes.WithLabelValues(string(metric)).Inc()

	// A partially failed pass still replaces the table: nil cells over
	// fresh data beat a complete but expired table.
	c.mu.Lock()
	e.result = res
	e.computedAt = c.now()
	e.fresh = true
	e.computing = false
	close(e.done)
	c.mu.Unlock()

	c.logger.Infof("recomputed %s table in %s", metric, c.now().Sub(started))
}
