package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldwise/fsm-api/internal/dto"
	"github.com/fieldwise/fsm-api/internal/models"
	"github.com/fieldwise/fsm-api/internal/service"
	appErrors "github.com/fieldwise/fsm-api/pkg/errors"
	"github.com/fieldwise/fsm-api/pkg/response"
)

type availabilityService interface {
	TechnicianConflicts(ctx context.Context, technicianID string, w service.Window, excludeID string) ([]models.PlanningRecord, error)
	VehicleConflicts(ctx context.Context, vehicleID string, w service.Window, excludeID string) ([]models.PlanningRecord, error)
}

// AvailabilityHandler exposes advisory availability checks.
type AvailabilityHandler struct {
	availability availabilityService
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(availability availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// Technician godoc
// @Summary Check technician availability in a window
// @Tags Availability
// @Produce json
// @Param id path string true "Technician ID"
// @Param start_date query string true "Window start (YYYY-MM-DD)"
// @Param end_date query string true "Window end (YYYY-MM-DD)"
// @Param start_time query string false "Window start clock (HH:MM)"
// @Param end_time query string false "Window end clock (HH:MM)"
// @Param all_day query boolean false "Whole-day window"
// @Param exclude_id query string false "Planning to ignore (self-check on edit)"
// @Success 200 {object} response.Envelope
// @Router /availability/technicians/{id} [get]
func (h *AvailabilityHandler) Technician(c *gin.Context) {
	window, excludeID, err := availabilityQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	conflicts, err := h.availability.TechnicianConflicts(c.Request.Context(), c.Param("id"), window, excludeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, availabilityResult(conflicts), nil)
}

// Vehicle godoc
// @Summary Check vehicle availability in a window
// @Tags Availability
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param start_date query string true "Window start (YYYY-MM-DD)"
// @Param end_date query string true "Window end (YYYY-MM-DD)"
// @Param exclude_id query string false "Planning to ignore (self-check on edit)"
// @Success 200 {object} response.Envelope
// @Router /availability/vehicles/{id} [get]
func (h *AvailabilityHandler) Vehicle(c *gin.Context) {
	window, excludeID, err := availabilityQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	conflicts, err := h.availability.VehicleConflicts(c.Request.Context(), c.Param("id"), window, excludeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, availabilityResult(conflicts), nil)
}

func availabilityQuery(c *gin.Context) (service.Window, string, error) {
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return service.Window{}, "", err
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return service.Window{}, "", err
	}
	if start == nil || end == nil {
		return service.Window{}, "", appErrors.Clone(appErrors.ErrValidation, "start_date and end_date are required")
	}

	window := service.Window{
		StartDate: *start,
		EndDate:   *end,
		AllDay:    c.Query("all_day") == "true",
	}
	if v := c.Query("start_time"); v != "" {
		window.StartTime = &v
	}
	if v := c.Query("end_time"); v != "" {
		window.EndTime = &v
	}
	return window, c.Query("exclude_id"), nil
}

func availabilityResult(conflicts []models.PlanningRecord) dto.AvailabilityResult {
	result := dto.AvailabilityResult{Available: len(conflicts) == 0}
	for _, conflict := range conflicts {
		result.Conflicts = append(result.Conflicts, fmt.Sprintf("planning %s from %s to %s (%s)",
			conflict.ID,
			conflict.StartDate.Format("2006-01-02"),
			conflict.EndDate.Format("2006-01-02"),
			conflict.Status,
		))
	}
	return result
}
