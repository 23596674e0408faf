package controllers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skssmd/patient-project/database"
	"github.com/skssmd/patient-project/internal/cache"
)

type HealthController struct {
	db    *gorm.DB
	redis *cache.RedisClient
}

// NewHealthController builds the service endpoints. redis may be nil when
// caching is disabled.
func NewHealthController(db *gorm.DB, redis *cache.RedisClient) *HealthController {
	return &HealthController{db: db, redis: redis}
}

// Home godoc
// @Summary Service banner
// @Tags health
// @Produce json
// @Success 200 {object} Envelope "Service information"
// @Router / [get]
func (hc *HealthController) Home(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"service": "patient-api",
		"message": "Patient records API is running",
		"docs":    "/swagger/index.html",
	})
}

// Health godoc
// @Summary Health check
// @Description Pings the database, and Redis when caching is enabled
// @Tags health
// @Produce json
// @Success 200 {object} Envelope "All dependencies reachable"
// @Failure 503 {object} Envelope "A dependency is unreachable"
// @Router /health [get]
func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	result := gin.H{}
	healthy := true

	dbErr := database.Ping(ctx, hc.db)
	result["database_health"] = dbErr == nil
	healthy = healthy && dbErr == nil

	if hc.redis != nil {
		redisErr := hc.redis.Ping(ctx)
		result["redis_health"] = redisErr == nil
		healthy = healthy && redisErr == nil
	}

	status := http.StatusOK
	result["status"] = "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		result["status"] = "degraded"
	}
	respond(c, status, result)
}

// Stats godoc
// @Summary Runtime statistics
// @Description Goroutine count, heap usage and database pool counters
// @Tags health
// @Produce json
// @Success 200 {object} Envelope "Runtime statistics"
// @Router /debug/stats [get]
func (hc *HealthController) Stats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	result := gin.H{
		"goroutines": runtime.NumGoroutine(),
		"memory_mb":  m.Alloc / 1024 / 1024,
	}

	if sqlDB, err := hc.db.DB(); err == nil {
		stats := sqlDB.Stats()
		result["db_pool"] = gin.H{
			"max_open": stats.MaxOpenConnections,
			"open":     stats.OpenConnections,
			"in_use":   stats.InUse,
			"idle":     stats.Idle,
			"wait":     stats.WaitCount,
		}
	}

	respond(c, http.StatusOK, result)
}
