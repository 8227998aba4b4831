package handlers

import (
	"errors"
	"net/http"

	"github.com/DocksDocks/oauth-api/internal/services"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type SetupHandler struct {
	setupService *services.SetupService
}

func NewSetupHandler(setupService *services.SetupService) *SetupHandler {
	return &SetupHandler{setupService: setupService}
}

// Status reports whether first-time setup has run.
// GET /setup/status
func (h *SetupHandler) Status(c *gin.Context) {
	complete, err := h.setupService.IsComplete()
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to read setup status")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"completed": complete})
}

// Complete creates the first superadmin from a verified provider identity.
// Exactly one caller ever succeeds.
// POST /setup/complete
func (h *SetupHandler) Complete(c *gin.Context) {
	var req services.ProviderLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	result, err := h.setupService.Complete(&req)
	if err != nil {
		if errors.Is(err, services.ErrSetupCompleted) {
			utils.Fail(c, http.StatusConflict, "SETUP_COMPLETED", "setup already completed")
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "setup failed")
		return
	}
	utils.OK(c, http.StatusCreated, result)
}
