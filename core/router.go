package core

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// NewRouter constructs the Gin engine for the worker fleet's read-only
// status surface: liveness, aggregate system status, and queue/worker
// metrics. There is no submission ingress here and nothing in this surface
// mutates state, so there is no session, CSRF, or origin-check middleware.
func NewRouter(redisClient *redis.Client) *gin.Engine {
	startedAt := time.Now()
	r := gin.Default()

	metrics := NewMetricsService(redisClient)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/status", func(c *gin.Context) {
			status, err := CollectSystemStatus(c.Request.Context(), metrics, startedAt)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "STATUS_UNAVAILABLE", err.Error())
				return
			}
			c.JSON(http.StatusOK, status)
		})

		api.GET("/metrics/queue", func(c *gin.Context) {
			qm, err := metrics.Queue(c.Request.Context())
			if err != nil {
				respondError(c, http.StatusInternalServerError, "METRICS_UNAVAILABLE", err.Error())
				return
			}
			c.JSON(http.StatusOK, qm)
		})

		api.GET("/metrics/workers/:id", func(c *gin.Context) {
			hb, err := metrics.WorkerByID(c.Request.Context(), c.Param("id"))
			if err != nil {
				respondError(c, http.StatusNotFound, "WORKER_NOT_FOUND", "no heartbeat for that worker id")
				return
			}
			c.JSON(http.StatusOK, hb)
		})
	}

	return r
}
