package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/DocksDocks/oauth-api/internal/models"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Empty string when absent or malformed.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func setIdentity(c *gin.Context, claims *utils.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextRole, claims.Role)
}

// AuthRequired verifies the bearer token and stores the identity in the
// request context. Missing or unverifiable tokens end the request with 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.AbortFail(c, http.StatusUnauthorized, "UNAUTHORIZED", "authorization header required")
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.AbortFail(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and
// lets the request through anonymously otherwise. It never rejects.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := utils.ParseToken(token); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole admits callers whose role ranks at or above required.
// Anonymous requests get 401; authenticated but under-ranked callers get
// 403 with the caller's and the required role in the error details.
func RequireRole(required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := currentRole(c)
		if !ok {
			utils.AbortFail(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		if !role.AtLeast(required) {
			utils.AbortFailWithDetails(c, http.StatusForbidden, "FORBIDDEN", "insufficient role",
				gin.H{"userRole": role, "requiredRole": required})
			return
		}
		c.Next()
	}
}

// RequireExactRole admits only callers holding exactly the given role.
// Higher-ranked roles do not pass.
func RequireExactRole(required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := currentRole(c)
		if !ok {
			utils.AbortFail(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		if !role.Exactly(required) {
			utils.AbortFailWithDetails(c, http.StatusForbidden, "FORBIDDEN", "exact role required",
				gin.H{"userRole": role, "requiredRole": required})
			return
		}
		c.Next()
	}
}

// RequireAnyRole admits callers whose role ranks at or above any of the
// allowed roles.
func RequireAnyRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := currentRole(c)
		if !ok {
			utils.AbortFail(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		for _, a := range allowed {
			if role.AtLeast(a) {
				c.Next()
				return
			}
		}
		utils.AbortFailWithDetails(c, http.StatusForbidden, "FORBIDDEN", "role not permitted",
			gin.H{"userRole": role, "allowedRoles": allowed})
	}
}

// SelfOrAdmin admits the caller when the path parameter names their own
// user id, or when they rank admin or above.
func SelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := currentRole(c)
		if !ok {
			utils.AbortFail(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		id, err := strconv.ParseUint(c.Param(param), 10, 32)
		if (err == nil && uint(id) == GetUserID(c)) || role.AtLeast(models.RoleAdmin) {
			c.Next()
			return
		}
		utils.AbortFailWithDetails(c, http.StatusForbidden, "FORBIDDEN", "insufficient role",
			gin.H{"userRole": role, "requiredRole": models.RoleAdmin})
	}
}

func currentRole(c *gin.Context) (models.Role, bool) {
	v, exists := c.Get(ContextRole)
	if !exists {
		return "", false
	}
	role, ok := v.(models.Role)
	if !ok || !role.Valid() {
		return "", false
	}
	return role, true
}

// GetUserID gets the current user ID from context
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(uint)
	}
	return 0
}

// GetEmail gets the current user email from context
func GetEmail(c *gin.Context) string {
	if email, exists := c.Get(ContextEmail); exists {
		return email.(string)
	}
	return ""
}

// GetRole gets the current user role from context
func GetRole(c *gin.Context) models.Role {
	if role, exists := c.Get(ContextRole); exists {
		if r, ok := role.(models.Role); ok {
			return r
		}
	}
	return ""
}
