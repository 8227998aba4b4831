package handlers

import (
	"net/http"
	"strconv"

	"github.com/DocksDocks/oauth-api/internal/services"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type SystemLogHandler struct {
	logService *services.SystemLogService
}

func NewSystemLogHandler(logService *services.SystemLogService) *SystemLogHandler {
	return &SystemLogHandler{logService: logService}
}

// List returns system logs with filters and pagination.
// GET /admin/system-logs
func (h *SystemLogHandler) List(c *gin.Context) {
	var req services.SystemLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	resp, err := h.logService.List(&req)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list system logs")
		return
	}
	utils.OK(c, http.StatusOK, resp)
}

// GetModules lists the distinct modules present in the logs, for filter
// dropdowns.
// GET /admin/system-logs/modules
func (h *SystemLogHandler) GetModules(c *gin.Context) {
	modules, err := h.logService.GetModules()
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list modules")
		return
	}
	utils.OK(c, http.StatusOK, modules)
}

// GetRetention returns the current log retention window in days.
// GET /admin/system-logs/retention
func (h *SystemLogHandler) GetRetention(c *gin.Context) {
	utils.OK(c, http.StatusOK, gin.H{"retention_days": h.logService.GetRetentionDays()})
}

type updateRetentionRequest struct {
	RetentionDays int `json:"retention_days" binding:"min=0,max=3650"`
}

// UpdateRetention sets the log retention window. Zero disables cleanup.
// PUT /admin/system-logs/retention
func (h *SystemLogHandler) UpdateRetention(c *gin.Context) {
	var req updateRetentionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	if err := h.logService.SetRetentionDays(req.RetentionDays); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update retention")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"retention_days": req.RetentionDays})
}

// Cleanup triggers an immediate sweep of logs past the retention window.
// POST /admin/system-logs/cleanup
func (h *SystemLogHandler) Cleanup(c *gin.Context) {
	days := h.logService.GetRetentionDays()
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	count, err := h.logService.CleanupOldLogs(days)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "cleanup failed")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"deleted": count})
}
