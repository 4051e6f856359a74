package web

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/perp-tools/bybit-screener/internal/logger"
	"github.com/perp-tools/bybit-screener/internal/model"
	"github.com/perp-tools/bybit-screener/internal/screener"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricSource is the cache surface the handlers read from.
type MetricSource interface {
	Get(ctx context.Context, metric model.Metric) (screener.Result, bool)
}

type Handler struct {
	source MetricSource
	logger logger.Logger
}

func NewRouter(source MetricSource, logger logger.Logger) *gin.Engine {
	h := &Handler{source: source, logger: logger}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", h.menu)
	r.GET("/index.html", h.menu)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	for _, m := range model.Metrics {
		metric := m
		r.GET("/"+string(metric)+".html", func(c *gin.Context) {
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(metricHTML(metric)))
		})
		r.GET("/"+string(metric)+".json", func(c *gin.Context) {
			h.metricJSON(c, metric)
		})
	}

	return r
}

func (h *Handler) menu(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(menuHTML()))
}

func (h *Handler) metricJSON(c *gin.Context, metric model.Metric) {
	res, ok := h.source.Get(c.Request.Context(), metric)
	if !ok || len(res.Rows) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no data"})
		return
	}

	body, err := sonic.Marshal(FormatTable(res))
	if err != nil {
		h.logger.Errorf("%s: can't marshal %s table", err, metric)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
