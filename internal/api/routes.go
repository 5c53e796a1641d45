package api

import (
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/tcg-pricewatch/internal/api/handlers"
	"github.com/codyseavey/tcg-pricewatch/internal/config"
	"github.com/codyseavey/tcg-pricewatch/internal/metrics"
	"github.com/codyseavey/tcg-pricewatch/internal/services"
)

// SetupRouter builds the read-only query API. The serving layer never
// writes; all mutation flows through the ingestion pipeline.
func SetupRouter(cfg *config.Config, store *services.SnapshotStore, worker *services.FetchWorker) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))
	router.Use(httpMetrics())

	cardHandler := handlers.NewCardHandler(store)
	priceHandler := handlers.NewPriceHandler(store, worker)
	watchlistHandler := handlers.NewWatchlistHandler(cfg.WatchlistPath, cfg.WatchlistMax)

	api := router.Group("/api")
	{
		api.GET("/cards", cardHandler.ListCards)
		api.GET("/cards/:id", cardHandler.GetCard)
		api.GET("/prices/:id", priceHandler.GetPriceHistory)
		api.GET("/watchlist", watchlistHandler.GetWatchlist)
		api.GET("/fetch/status", priceHandler.GetFetchStatus)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "tcg-pricewatch"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// httpMetrics records request counts and latency per route.
func httpMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}
