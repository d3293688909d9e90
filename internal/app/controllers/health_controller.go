package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meeras/brigadier/internal/db"
)

// HealthController reports process and dependency health
type HealthController struct {
	database *db.PostgresDB
	cache    *db.Redis
	env      string
}

// NewHealthController creates a new HealthController. cache may be nil.
func NewHealthController(database *db.PostgresDB, cache *db.Redis, env string) *HealthController {
	return &HealthController{
		database: database,
		cache:    cache,
		env:      env,
	}
}

// Health returns service status including dependency reachability
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{} "Database unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	overall := "ok"
	dbStatus := "ok"
	status := http.StatusOK
	if err := c.database.Pool.Ping(ctx.Request.Context()); err != nil {
		overall = "degraded"
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	redisStatus := "disabled"
	if c.cache != nil {
		if c.cache.Healthy(ctx.Request.Context()) {
			redisStatus = "ok"
		} else {
			redisStatus = "unreachable"
		}
	}

	ctx.JSON(status, gin.H{
		"status":      overall,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": c.env,
		"db":          dbStatus,
		"redis":       redisStatus,
	})
}
