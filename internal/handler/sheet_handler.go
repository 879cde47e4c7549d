package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldwise/fsm-api/internal/models"
	appErrors "github.com/fieldwise/fsm-api/pkg/errors"
	"github.com/fieldwise/fsm-api/pkg/response"
)

type sheetRepository interface {
	List(ctx context.Context, filter models.ReferenceFilter) ([]models.ServiceSheet, int, error)
	FindByID(ctx context.Context, id string) (*models.ServiceSheet, error)
}

// SheetHandler exposes the read-only service-sheet registry.
type SheetHandler struct {
	repo sheetRepository
}

// NewSheetHandler constructs the handler.
func NewSheetHandler(repo sheetRepository) *SheetHandler {
	return &SheetHandler{repo: repo}
}

// List returns service sheets with optional number search.
func (h *SheetHandler) List(c *gin.Context) {
	filter := referenceFilter(c)
	sheets, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheets, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total})
}

// Get returns a single service sheet.
func (h *SheetHandler) Get(c *gin.Context) {
	sheet, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "service sheet not found"))
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}
