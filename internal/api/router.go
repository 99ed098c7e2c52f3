package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vibetracker/internal/metrics"
)

// NewRouter wires the dashboard routes. gatherer may be nil, in which case
// /metrics is not served.
func NewRouter(h *Handler, m *metrics.Metrics, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metricsMiddleware(m))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		influencers := api.Group("/influencers")
		influencers.GET("", h.ListInfluencers)
		influencers.POST("", h.CreateInfluencer)
		influencers.GET("/:id", h.GetInfluencer)
		influencers.PUT("/:id", h.UpdateInfluencer)
		influencers.DELETE("/:id", h.RemoveInfluencer)

		api.GET("/analysis", h.AnalysisStatus)
		api.POST("/analysis", h.StartAnalysis)
		api.GET("/feed", h.Feed)
		api.GET("/stats", h.Stats)
		api.GET("/notifications", h.Notifications)
	}

	return r
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
