package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldwise/fsm-api/internal/models"
)

type calendarServiceMock struct {
	planningEvents     []models.CalendarEvent
	interventionEvents []models.CalendarEvent
	err                error
	lastFrom           *time.Time
	lastTo             *time.Time
}

func (m *calendarServiceMock) PlanningEvents(ctx context.Context, from, to *time.Time) ([]models.CalendarEvent, error) {
	m.lastFrom = from
	m.lastTo = to
	return m.planningEvents, m.err
}

func (m *calendarServiceMock) InterventionEvents(ctx context.Context, from, to *time.Time) ([]models.CalendarEvent, error) {
	m.lastFrom = from
	m.lastTo = to
	return m.interventionEvents, m.err
}

func TestCalendarHandlerPlannings(t *testing.T) {
	mockSvc := &calendarServiceMock{planningEvents: []models.CalendarEvent{{ID: "p1", Title: "JOB-001 - Mario Rossi"}}}
	h := NewCalendarHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/calendar/plannings?from=2025-03-01&to=2025-03-31", nil)
	h.Plannings(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockSvc.lastFrom)
	assert.Equal(t, "2025-03-01", mockSvc.lastFrom.Format("2006-01-02"))
	require.NotNil(t, mockSvc.lastTo)

	var envelope struct {
		Data []models.CalendarEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "JOB-001 - Mario Rossi", envelope.Data[0].Title)
}

func TestCalendarHandlerPlanningsOpenRange(t *testing.T) {
	mockSvc := &calendarServiceMock{}
	h := NewCalendarHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/calendar/plannings", nil)
	h.Plannings(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, mockSvc.lastFrom)
	assert.Nil(t, mockSvc.lastTo)
}

func TestCalendarHandlerInterventions(t *testing.T) {
	mockSvc := &calendarServiceMock{interventionEvents: []models.CalendarEvent{{
		ID:       "interventions:2025-03-10|t1|j1",
		AllDay:   true,
		Extended: models.CalendarEventDetails{WorkHours: 3.5},
	}}}
	h := NewCalendarHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/calendar/interventions?from=2025-03-01&to=2025-03-31", nil)
	h.Interventions(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data []models.CalendarEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.True(t, envelope.Data[0].AllDay)
	assert.InDelta(t, 3.5, envelope.Data[0].Extended.WorkHours, 1e-9)
}

func TestCalendarHandlerBadRange(t *testing.T) {
	h := NewCalendarHandler(&calendarServiceMock{})

	c, w := testContext(t, http.MethodGet, "/calendar/interventions?from=10-03-2025", nil)
	h.Interventions(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
