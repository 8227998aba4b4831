package handlers

import (
	"errors"
	"net/http"

	"github.com/DocksDocks/oauth-api/internal/middleware"
	"github.com/DocksDocks/oauth-api/internal/services"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// List returns the caller's linked provider accounts.
// GET /accounts
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accountService.ListForUser(middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list accounts")
		return
	}
	utils.OK(c, http.StatusOK, accounts)
}

// Link attaches another provider identity to the caller.
// POST /accounts/link
func (h *AccountHandler) Link(c *gin.Context) {
	var req services.ProviderLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	account, err := h.accountService.Link(middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, services.ErrProviderConflict) {
			utils.Fail(c, http.StatusConflict, "PROVIDER_CONFLICT", "provider account already linked")
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to link account")
		return
	}
	utils.OK(c, http.StatusCreated, account)
}

// Unlink detaches one provider from the caller. The last provider can
// never be removed.
// DELETE /accounts/:provider
func (h *AccountHandler) Unlink(c *gin.Context) {
	err := h.accountService.Unlink(middleware.GetUserID(c), c.Param("provider"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProviderNotLinked):
			utils.Fail(c, http.StatusNotFound, "NOT_FOUND", "provider not linked")
		case errors.Is(err, services.ErrLastProvider):
			utils.Fail(c, http.StatusBadRequest, "LAST_PROVIDER", "cannot unlink the last provider account")
		default:
			utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to unlink account")
		}
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"message": "account unlinked"})
}

// SetPrimary marks one linked provider as the caller's primary.
// PUT /accounts/:provider/primary
func (h *AccountHandler) SetPrimary(c *gin.Context) {
	err := h.accountService.SetPrimary(middleware.GetUserID(c), c.Param("provider"))
	if err != nil {
		if errors.Is(err, services.ErrProviderNotLinked) {
			utils.Fail(c, http.StatusNotFound, "NOT_FOUND", "provider not linked")
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to set primary account")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"message": "primary account updated"})
}
