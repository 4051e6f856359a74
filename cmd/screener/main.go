package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/perp-tools/bybit-screener/internal/bybit"
	"github.com/perp-tools/bybit-screener/internal/config"
	"github.com/perp-tools/bybit-screener/internal/logger"
	"github.com/perp-tools/bybit-screener/internal/model"
	"github.com/perp-tools/bybit-screener/internal/screener"
	"github.com/perp-tools/bybit-screener/internal/server"
	"github.com/perp-tools/bybit-screener/internal/web"
	"github.com/robfig/cron/v3"
)

const (
	_cfgFilePath = "./configs/screener.yaml"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("can't detect .env file")
	}

	cfg, err := config.LoadScreenerConfig(_cfgFilePath)
	if err != nil {
		log.Fatalf("%s: can't load cfg", err)
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := bybit.NewClient(cfg.BaseURL, zapLogger)

	watchlist := screener.SelectWatchlist(ctx, client,
		cfg.ReferenceSymbol, cfg.QuoteSuffix, cfg.TurnoverFloor, cfg.WatchlistSize)
	if len(watchlist) <= 1 {
		zapLogger.Warnf("watch-list holds only the reference symbol, is the upstream reachable?")
	}
	zapLogger.Infof("selected %d symbols", len(watchlist))

	periods := cfg.ParsedPeriods()
	engine := screener.NewEngine(client, cfg.ReferenceSymbol, zapLogger)
	cache := screener.NewCache(cfg.CacheTTL.Std(), func(ctx context.Context, m model.Metric) screener.Result {
		return engine.ComputeTable(ctx, watchlist, m, periods)
	}, zapLogger)

	warmer := cron.New()
	if _, err := warmer.AddFunc(fmt.Sprintf("@every %s", cfg.RefreshInterval.Std()), func() {
		cache.RefreshAll(ctx)
	}); err != nil {
		zapLogger.Fatalf("%s: can't schedule cache warmer", err)
	}
	warmer.Start()
	defer warmer.Stop()

	go cache.RefreshAll(ctx)

	router := web.NewRouter(cache, zapLogger)
	srv := server.NewHTTPServer(ctx, cfg.Port, router)

	zapLogger.Infof("serving on http://0.0.0.0:%s/index.html", cfg.Port)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zapLogger.Fatalf("%s: server stopped", err)
	}
}
