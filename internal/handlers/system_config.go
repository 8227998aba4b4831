package handlers

import (
	"net/http"

	"github.com/DocksDocks/oauth-api/internal/services"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type SystemConfigHandler struct {
	configService *services.SystemConfigService
}

func NewSystemConfigHandler(configService *services.SystemConfigService) *SystemConfigHandler {
	return &SystemConfigHandler{configService: configService}
}

// GetAuthSessionConfig returns the tunable token lifetimes.
// GET /admin/config/auth-session
func (h *SystemConfigHandler) GetAuthSessionConfig(c *gin.Context) {
	utils.OK(c, http.StatusOK, h.configService.GetAuthSessionConfig())
}

// UpdateAuthSessionConfig stores new token lifetimes. Values are validated
// before they land, so issuance can never pick up a broken TTL.
// PUT /admin/config/auth-session
func (h *SystemConfigHandler) UpdateAuthSessionConfig(c *gin.Context) {
	var req services.UpdateAuthSessionConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	if err := h.configService.UpdateAuthSessionConfig(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "INVALID_TTL", err.Error())
		return
	}
	utils.OK(c, http.StatusOK, h.configService.GetAuthSessionConfig())
}
