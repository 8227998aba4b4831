package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/DocksDocks/oauth-api/internal/middleware"
	"github.com/DocksDocks/oauth-api/internal/services"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  *services.AuthService
	tokenService *services.TokenService
}

func NewAuthHandler(authService *services.AuthService, tokenService *services.TokenService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
	}
}

func clientInfo(c *gin.Context) services.ClientInfo {
	return services.ClientInfo{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// Login resolves a verified provider identity to a local user and issues
// a token pair.
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.ProviderLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	result, err := h.authService.LoginWithProvider(&req, clientInfo(c))
	if err != nil {
		if errors.Is(err, services.ErrProviderConflict) {
			utils.Fail(c, http.StatusConflict, "PROVIDER_CONFLICT", "provider account already linked to another user")
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "login failed")
		return
	}

	utils.OK(c, http.StatusOK, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh rotates a refresh token. Every failure is a 401 with a code
// telling the client whether re-login is required.
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	pair, err := h.tokenService.Rotate(req.RefreshToken, clientInfo(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidToken):
			utils.Fail(c, http.StatusUnauthorized, "INVALID_TOKEN", "refresh token is invalid or expired")
		case errors.Is(err, services.ErrTokenNotFound):
			utils.Fail(c, http.StatusUnauthorized, "TOKEN_NOT_FOUND", "refresh token not recognized")
		case errors.Is(err, services.ErrTokenRevoked):
			utils.Fail(c, http.StatusUnauthorized, "TOKEN_REVOKED", "refresh token has been revoked")
		case errors.Is(err, services.ErrTokenReuseDetected):
			utils.Fail(c, http.StatusUnauthorized, "TOKEN_REUSE_DETECTED", "refresh token reuse detected; all sessions revoked")
		default:
			utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "token refresh failed")
		}
		return
	}

	utils.OK(c, http.StatusOK, pair)
}

// Verify confirms the access token presented to the middleware and echoes
// the identity it carries.
// GET /auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	utils.OK(c, http.StatusOK, gin.H{
		"id":    middleware.GetUserID(c),
		"email": middleware.GetEmail(c),
		"role":  middleware.GetRole(c),
	})
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
	LogoutAll    bool   `json:"logoutAll"`
}

// Logout revokes the presented session. Always 200: logging out of a
// session that no longer exists is still logged out.
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	// Body is optional; a bare logout is fine
	_ = c.ShouldBindJSON(&req)

	if req.LogoutAll {
		if claims, err := utils.ParseToken(bearerOrRefresh(c, req.RefreshToken)); err == nil {
			_ = h.tokenService.RevokeAll(claims.UserID, clientInfo(c))
			utils.OK(c, http.StatusOK, gin.H{"message": "logged out"})
			return
		}
	}

	_ = h.tokenService.Revoke(req.RefreshToken)
	utils.OK(c, http.StatusOK, gin.H{"message": "logged out"})
}

// bearerOrRefresh prefers the Authorization header identity, falling back
// to the refresh token body field.
func bearerOrRefresh(c *gin.Context, refreshToken string) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && header[:7] == "Bearer " {
		return header[7:]
	}
	return refreshToken
}

// Sessions lists the caller's active sessions.
// GET /auth/sessions
func (h *AuthHandler) Sessions(c *gin.Context) {
	sessions, err := h.tokenService.Sessions(middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list sessions")
		return
	}
	utils.OK(c, http.StatusOK, sessions)
}

// DeleteSession revokes one of the caller's sessions. Unknown ids are a
// silent success so the endpoint leaks nothing about other users.
// DELETE /auth/sessions/:id
func (h *AuthHandler) DeleteSession(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", "invalid session id")
		return
	}

	if err := h.tokenService.RevokeSession(middleware.GetUserID(c), uint(id)); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to revoke session")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"message": "session revoked"})
}

// GetCurrentUser returns the caller's profile.
// GET /auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.authService.GetUserByID(middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	utils.OK(c, http.StatusOK, user)
}
