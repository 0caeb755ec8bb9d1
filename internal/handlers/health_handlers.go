package handlers

import (
	"net/http"
	"runtime"
	"time"

	"sareemart/internal/caching"
	"sareemart/internal/repositories"

	"github.com/labstack/echo/v4"
)

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db       repositories.Database
	redisSvc caching.CacheService
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(db repositories.Database, redisSvc caching.CacheService) *HealthHandlers {
	return &HealthHandlers{
		db:       db,
		redisSvc: redisSvc,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version"`
}

// HealthCheck performs health checks against the database and cache
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Version:   "1.0.0",
	}

	if _, err := h.db.Exec(ctx, "SELECT 1"); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["database"] = "healthy"
	}

	if err := h.redisSvc.Ping(ctx); err != nil {
		health.Services["redis"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["redis"] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, health)
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.db.Exec(ctx, "SELECT 1"); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

// LivenessCheck determines if the application is running
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// DetailedHealthCheck provides per-dependency health information
func (h *HealthHandlers) DetailedHealthCheck(c echo.Context) error {
	ctx := c.Request().Context()

	checks := make(map[string]interface{})
	overall := "healthy"

	dbStart := time.Now()
	dbCheck := map[string]interface{}{
		"status":     "healthy",
		"latency_ms": int64(0),
	}
	if _, err := h.db.Exec(ctx, "SELECT 1"); err != nil {
		dbCheck["status"] = "unhealthy"
		dbCheck["message"] = err.Error()
		overall = "degraded"
	}
	dbCheck["latency_ms"] = time.Since(dbStart).Milliseconds()
	checks["database"] = dbCheck

	redisStart := time.Now()
	redisCheck := map[string]interface{}{
		"status":     "healthy",
		"latency_ms": int64(0),
	}
	if err := h.redisSvc.Ping(ctx); err != nil {
		redisCheck["status"] = "unhealthy"
		redisCheck["message"] = err.Error()
		overall = "degraded"
	}
	redisCheck["latency_ms"] = time.Since(redisStart).Milliseconds()
	checks["redis"] = redisCheck

	return c.JSON(http.StatusOK, map[string]interface{}{
		"overall_status": overall,
		"checks":         checks,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"version":        "1.0.0",
		"goroutines":     runtime.NumGoroutine(),
	})
}
