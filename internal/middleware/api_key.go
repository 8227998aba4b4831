package middleware

import (
	"net/http"

	"github.com/DocksDocks/oauth-api/internal/models"
	"github.com/DocksDocks/oauth-api/internal/services"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// APIKeyRequired gates a route on a valid X-API-Key header.
//
// Bearer tokens whose decoded claims carry an admin-or-above role skip
// the gate. The token is decoded, not verified, so this only waives the
// API key requirement; any endpoint needing real authorization still
// runs AuthRequired and the role middleware behind this gate.
func APIKeyRequired(apiKeys *services.APIKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims := utils.DecodeToken(token); claims != nil && claims.Role.AtLeast(models.RoleAdmin) {
				c.Next()
				return
			}
		}

		rawKey := c.GetHeader("X-API-Key")
		if rawKey == "" {
			utils.AbortFail(c, http.StatusUnauthorized, "API_KEY_REQUIRED", "x-api-key header required")
			return
		}

		if _, err := apiKeys.Validate(c.Request.Context(), rawKey); err != nil {
			utils.AbortFail(c, http.StatusUnauthorized, "API_KEY_INVALID", "invalid api key")
			return
		}

		c.Next()
	}
}
