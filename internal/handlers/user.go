package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/DocksDocks/oauth-api/internal/middleware"
	"github.com/DocksDocks/oauth-api/internal/models"
	"github.com/DocksDocks/oauth-api/internal/services"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns users with pagination and optional search.
// GET /admin/users
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	search := c.Query("search")

	result, err := h.userService.List(page, pageSize, search)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list users")
		return
	}
	utils.OK(c, http.StatusOK, result)
}

// Get returns one user with their linked provider accounts.
// GET /admin/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", "invalid user id")
		return
	}

	user, err := h.userService.GetByID(uint(id))
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	utils.OK(c, http.StatusOK, user)
}

type updateRoleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

// UpdateRole changes a user's role and revokes their sessions.
// PUT /admin/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", "invalid user id")
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	user, err := h.userService.UpdateRole(middleware.GetUserID(c), middleware.GetRole(c), uint(id), req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			utils.Fail(c, http.StatusBadRequest, "INVALID_ROLE", "unknown role")
		case errors.Is(err, services.ErrSelfRoleChange):
			utils.Fail(c, http.StatusBadRequest, "SELF_ROLE_CHANGE", "cannot change own role")
		case errors.Is(err, services.ErrSuperadminTarget):
			utils.FailWithDetails(c, http.StatusForbidden, "FORBIDDEN", "superadmin role changes require superadmin",
				gin.H{"userRole": middleware.GetRole(c), "requiredRole": models.RoleSuperadmin})
		case errors.Is(err, services.ErrUserNotFound):
			utils.Fail(c, http.StatusNotFound, "NOT_FOUND", "user not found")
		default:
			utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update role")
		}
		return
	}
	utils.OK(c, http.StatusOK, user)
}

// Delete removes a user and their linked data.
// DELETE /admin/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", "invalid user id")
		return
	}

	err = h.userService.Delete(middleware.GetUserID(c), middleware.GetRole(c), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfRoleChange):
			utils.Fail(c, http.StatusBadRequest, "SELF_DELETE", "cannot delete own account")
		case errors.Is(err, services.ErrSuperadminTarget):
			utils.FailWithDetails(c, http.StatusForbidden, "FORBIDDEN", "deleting a superadmin requires superadmin",
				gin.H{"userRole": middleware.GetRole(c), "requiredRole": models.RoleSuperadmin})
		case errors.Is(err, services.ErrUserNotFound):
			utils.Fail(c, http.StatusNotFound, "NOT_FOUND", "user not found")
		default:
			utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete user")
		}
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"message": "user deleted"})
}

type updateProfileRequest struct {
	Name   string `json:"name" binding:"max=100"`
	Avatar string `json:"avatar" binding:"max=500"`
}

// UpdateProfile lets the caller edit their display fields.
// PUT /auth/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(middleware.GetUserID(c), req.Name, req.Avatar)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update profile")
		return
	}
	utils.OK(c, http.StatusOK, user)
}
