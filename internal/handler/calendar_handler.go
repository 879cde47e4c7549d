package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fieldwise/fsm-api/internal/models"
	"github.com/fieldwise/fsm-api/pkg/response"
)

type calendarService interface {
	PlanningEvents(ctx context.Context, from, to *time.Time) ([]models.CalendarEvent, error)
	InterventionEvents(ctx context.Context, from, to *time.Time) ([]models.CalendarEvent, error)
}

// CalendarHandler exposes the aggregated calendar views.
type CalendarHandler struct {
	calendar calendarService
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(calendar calendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// Plannings godoc
// @Summary Planning records as calendar events
// @Tags Calendar
// @Produce json
// @Param from query string false "Window start (YYYY-MM-DD)"
// @Param to query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /calendar/plannings [get]
func (h *CalendarHandler) Plannings(c *gin.Context) {
	from, to, err := calendarRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	events, err := h.calendar.PlanningEvents(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Interventions godoc
// @Summary Logged interventions aggregated into calendar events
// @Tags Calendar
// @Produce json
// @Param from query string false "Window start (YYYY-MM-DD)"
// @Param to query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /calendar/interventions [get]
func (h *CalendarHandler) Interventions(c *gin.Context) {
	from, to, err := calendarRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	events, err := h.calendar.InterventionEvents(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

func calendarRange(c *gin.Context) (*time.Time, *time.Time, error) {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return nil, nil, err
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
