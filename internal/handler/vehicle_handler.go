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

type vehicleRepository interface {
	List(ctx context.Context, filter models.ReferenceFilter) ([]models.Vehicle, int, error)
	FindByID(ctx context.Context, id string) (*models.Vehicle, error)
}

// VehicleHandler exposes the read-only vehicle fleet.
type VehicleHandler struct {
	repo vehicleRepository
}

// NewVehicleHandler constructs the handler.
func NewVehicleHandler(repo vehicleRepository) *VehicleHandler {
	return &VehicleHandler{repo: repo}
}

// List returns the fleet with optional search/active filters.
func (h *VehicleHandler) List(c *gin.Context) {
	filter := referenceFilter(c)
	vehicles, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vehicles, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total})
}

// Get returns a single vehicle.
func (h *VehicleHandler) Get(c *gin.Context) {
	vehicle, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "vehicle not found"))
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vehicle, nil)
}
