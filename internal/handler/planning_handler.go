package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fieldwise/fsm-api/internal/dto"
	"github.com/fieldwise/fsm-api/internal/models"
	"github.com/fieldwise/fsm-api/internal/service"
	appErrors "github.com/fieldwise/fsm-api/pkg/errors"
	"github.com/fieldwise/fsm-api/pkg/response"
)

type planningService interface {
	Save(ctx context.Context, id string, req dto.SavePlanningRequest, mode service.SaveMode) (*dto.SavePlanningResult, error)
	Get(ctx context.Context, id string) (*models.PlanningRecord, error)
	List(ctx context.Context, filter models.PlanningFilter) ([]models.PlanningRecord, *models.Pagination, error)
	Delete(ctx context.Context, id string) error
}

type lifecycleService interface {
	ChangeStatus(ctx context.Context, id string, target models.PlanningStatus) (*models.PlanningRecord, error)
}

// PlanningHandler exposes the planning CRUD and lifecycle endpoints.
type PlanningHandler struct {
	plannings planningService
	lifecycle lifecycleService
}

// NewPlanningHandler constructs the handler.
func NewPlanningHandler(plannings planningService, lifecycle lifecycleService) *PlanningHandler {
	return &PlanningHandler{plannings: plannings, lifecycle: lifecycle}
}

// List godoc
// @Summary List planning records
// @Tags Plannings
// @Produce json
// @Param from query string false "Window start (YYYY-MM-DD)"
// @Param to query string false "Window end (YYYY-MM-DD)"
// @Param technician_id query string false "Assigned technician"
// @Param vehicle_id query string false "Primary or secondary vehicle"
// @Param status query string false "Lifecycle status"
// @Success 200 {object} response.Envelope
// @Router /plannings [get]
func (h *PlanningHandler) List(c *gin.Context) {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := models.PlanningFilter{
		From:         from,
		To:           to,
		TechnicianID: c.Query("technician_id"),
		VehicleID:    c.Query("vehicle_id"),
		JobID:        c.Query("job_id"),
		SheetID:      c.Query("sheet_id"),
		ClientID:     c.Query("client_id"),
		Status:       models.PlanningStatus(c.Query("status")),
		Page:         intQuery(c, "page", 1),
		PageSize:     intQuery(c, "limit", 100),
	}

	records, pagination, err := h.plannings.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Get godoc
// @Summary Get a planning record
// @Tags Plannings
// @Produce json
// @Param id path string true "Planning ID"
// @Success 200 {object} response.Envelope
// @Router /plannings/{id} [get]
func (h *PlanningHandler) Get(c *gin.Context) {
	record, err := h.plannings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Create godoc
// @Summary Create planning records, expanding recurrence templates
// @Tags Plannings
// @Accept json
// @Produce json
// @Param payload body dto.SavePlanningRequest true "Planning draft"
// @Success 201 {object} response.Envelope
// @Router /plannings [post]
func (h *PlanningHandler) Create(c *gin.Context) {
	var req dto.SavePlanningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON payload"))
		return
	}
	result, err := h.plannings.Save(c.Request.Context(), "", req, service.SaveModeCreate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update godoc
// @Summary Fully edit a planning record
// @Tags Plannings
// @Accept json
// @Produce json
// @Param id path string true "Planning ID"
// @Param payload body dto.SavePlanningRequest true "Planning draft"
// @Success 200 {object} response.Envelope
// @Router /plannings/{id} [put]
func (h *PlanningHandler) Update(c *gin.Context) {
	var req dto.SavePlanningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON payload"))
		return
	}
	result, err := h.plannings.Save(c.Request.Context(), c.Param("id"), req, service.SaveModeUpdate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete a planning record
// @Tags Plannings
// @Param id path string true "Planning ID"
// @Success 204
// @Router /plannings/{id} [delete]
func (h *PlanningHandler) Delete(c *gin.Context) {
	if err := h.plannings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ChangeStatus godoc
// @Summary Transition a planning record's lifecycle status
// @Tags Plannings
// @Accept json
// @Produce json
// @Param id path string true "Planning ID"
// @Param payload body dto.ChangeStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Router /plannings/{id}/status [patch]
func (h *PlanningHandler) ChangeStatus(c *gin.Context) {
	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON payload"))
		return
	}
	record, err := h.lifecycle.ChangeStatus(c.Request.Context(), c.Param("id"), models.PlanningStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+", expected YYYY-MM-DD")
	}
	return &parsed, nil
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
