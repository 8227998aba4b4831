package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/DocksDocks/oauth-api/internal/services"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type CollectionHandler struct {
	collectionService *services.CollectionService
}

func NewCollectionHandler(collectionService *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// List returns the browsable collections and their column metadata.
// GET /admin/collections
func (h *CollectionHandler) List(c *gin.Context) {
	utils.OK(c, http.StatusOK, h.collectionService.List())
}

// Browse reads one page of rows from a collection.
// GET /admin/collections/:name
func (h *CollectionHandler) Browse(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.collectionService.Browse(
		c.Param("name"),
		page, pageSize,
		c.Query("search"),
		c.Query("sort_by"),
		c.Query("sort_dir"),
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCollectionNotFound):
			utils.Fail(c, http.StatusNotFound, "NOT_FOUND", "collection not found")
		case errors.Is(err, services.ErrInvalidSortColumn):
			utils.Fail(c, http.StatusBadRequest, "BAD_REQUEST", "column is not sortable")
		default:
			utils.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to browse collection")
		}
		return
	}
	utils.OK(c, http.StatusOK, result)
}
