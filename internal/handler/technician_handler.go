package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fieldwise/fsm-api/internal/models"
	appErrors "github.com/fieldwise/fsm-api/pkg/errors"
	"github.com/fieldwise/fsm-api/pkg/response"
)

type technicianRepository interface {
	List(ctx context.Context, filter models.ReferenceFilter) ([]models.Technician, int, error)
	FindByID(ctx context.Context, id string) (*models.Technician, error)
}

// TechnicianHandler exposes the read-only technician roster.
type TechnicianHandler struct {
	repo technicianRepository
}

// NewTechnicianHandler constructs the handler.
func NewTechnicianHandler(repo technicianRepository) *TechnicianHandler {
	return &TechnicianHandler{repo: repo}
}

// List godoc
// @Summary List technicians
// @Tags Technicians
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /technicians [get]
func (h *TechnicianHandler) List(c *gin.Context) {
	filter := referenceFilter(c)
	technicians, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, technicians, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total})
}

// Get godoc
// @Summary Get a technician
// @Tags Technicians
// @Produce json
// @Param id path string true "Technician ID"
// @Success 200 {object} response.Envelope
// @Router /technicians/{id} [get]
func (h *TechnicianHandler) Get(c *gin.Context) {
	technician, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "technician not found"))
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, technician, nil)
}

func referenceFilter(c *gin.Context) models.ReferenceFilter {
	filter := models.ReferenceFilter{
		Search:   c.Query("search"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "limit", 50),
	}
	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}
	return filter
}
