package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/DocksDocks/oauth-api/internal/middleware"
	"github.com/DocksDocks/oauth-api/internal/services"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type APIKeyHandler struct {
	apiKeyService *services.APIKeyService
}

func NewAPIKeyHandler(apiKeyService *services.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{apiKeyService: apiKeyService}
}

type createAPIKeyRequest struct {
	Name      string     `json:"name" binding:"required,max=100"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Create mints an API key for the caller. The raw key appears in this
// response only.
// POST /apikeys
func (h *APIKeyHandler) Create(c *gin.Context) {
	var req createAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	created, err := h.apiKeyService.Create(middleware.GetUserID(c), req.Name, req.ExpiresAt)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create api key")
		return
	}
	utils.OK(c, http.StatusCreated, created)
}

// List returns the caller's API keys.
// GET /apikeys
func (h *APIKeyHandler) List(c *gin.Context) {
	keys, err := h.apiKeyService.ListForUser(middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list api keys")
		return
	}
	utils.OK(c, http.StatusOK, keys)
}

// Revoke deactivates one of the caller's keys.
// PUT /apikeys/:id/revoke
func (h *APIKeyHandler) Revoke(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", "invalid api key id")
		return
	}

	if err := h.apiKeyService.Revoke(c.Request.Context(), middleware.GetUserID(c), uint(id)); err != nil {
		if errors.Is(err, services.ErrAPIKeyNotFound) {
			utils.Fail(c, http.StatusNotFound, "NOT_FOUND", "api key not found")
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to revoke api key")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"message": "api key revoked"})
}

// Delete removes one of the caller's keys.
// DELETE /apikeys/:id
func (h *APIKeyHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", "invalid api key id")
		return
	}

	if err := h.apiKeyService.Delete(c.Request.Context(), middleware.GetUserID(c), uint(id)); err != nil {
		if errors.Is(err, services.ErrAPIKeyNotFound) {
			utils.Fail(c, http.StatusNotFound, "NOT_FOUND", "api key not found")
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete api key")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"message": "api key deleted"})
}
