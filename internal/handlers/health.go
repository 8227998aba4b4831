package handlers

import (
	"github.com/DocksDocks/oauth-api/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports subsystem health.
type HealthHandler struct {
	db        *gorm.DB
	taskQueue services.TaskQueue
	redisOn   bool
}

func NewHealthHandler(db *gorm.DB, taskQueue services.TaskQueue, redisOn bool) *HealthHandler {
	return &HealthHandler{db: db, taskQueue: taskQueue, redisOn: redisOn}
}

// CheckHealth returns the health status of all subsystems.
// GET /health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	dbStatus := "ok"
	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	queueMode := "sync"
	if h.taskQueue != nil && h.taskQueue.IsAsync() {
		queueMode = "async (Redis)"
	}

	cacheMode := "disabled"
	if h.redisOn {
		cacheMode = "redis"
	}

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "oauth-api",
		"components": gin.H{
			"database":   dbStatus,
			"queue_mode": queueMode,
			"cache":      cacheMode,
		},
	})
}
