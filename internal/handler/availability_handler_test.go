package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldwise/fsm-api/internal/dto"
	"github.com/fieldwise/fsm-api/internal/models"
	"github.com/fieldwise/fsm-api/internal/service"
	appErrors "github.com/fieldwise/fsm-api/pkg/errors"
)

type availabilityServiceMock struct {
	technicianConflicts []models.PlanningRecord
	vehicleConflicts    []models.PlanningRecord
	err                 error
	lastWindow          service.Window
	lastExclude         string
}

func (m *availabilityServiceMock) TechnicianConflicts(ctx context.Context, technicianID string, w service.Window, excludeID string) ([]models.PlanningRecord, error) {
	m.lastWindow = w
	m.lastExclude = excludeID
	return m.technicianConflicts, m.err
}

func (m *availabilityServiceMock) VehicleConflicts(ctx context.Context, vehicleID string, w service.Window, excludeID string) ([]models.PlanningRecord, error) {
	m.lastWindow = w
	m.lastExclude = excludeID
	return m.vehicleConflicts, m.err
}

func TestAvailabilityHandlerTechnicianAvailable(t *testing.T) {
	mockSvc := &availabilityServiceMock{}
	h := NewAvailabilityHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/availability/technicians/t1?start_date=2025-03-01&end_date=2025-03-02&start_time=08:00&end_time=17:00&exclude_id=p1", nil)
	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	h.Technician(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p1", mockSvc.lastExclude)
	require.NotNil(t, mockSvc.lastWindow.StartTime)
	assert.Equal(t, "08:00", *mockSvc.lastWindow.StartTime)

	var envelope struct {
		Data dto.AvailabilityResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Available)
	assert.Empty(t, envelope.Data.Conflicts)
}

func TestAvailabilityHandlerTechnicianConflicts(t *testing.T) {
	mockSvc := &availabilityServiceMock{technicianConflicts: []models.PlanningRecord{{
		ID:        "p7",
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:    models.PlanningStatusConfirmed,
	}}}
	h := NewAvailabilityHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/availability/technicians/t1?start_date=2025-03-01&end_date=2025-03-02&all_day=true", nil)
	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	h.Technician(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.lastWindow.AllDay)

	var envelope struct {
		Data dto.AvailabilityResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.Available)
	require.Len(t, envelope.Data.Conflicts, 1)
	assert.Equal(t, "planning p7 from 2025-03-01 to 2025-03-02 (Confermata)", envelope.Data.Conflicts[0])
}

func TestAvailabilityHandlerMissingDates(t *testing.T) {
	h := NewAvailabilityHandler(&availabilityServiceMock{})

	c, w := testContext(t, http.MethodGet, "/availability/technicians/t1", nil)
	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	h.Technician(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandlerVehicleUnknownResource(t *testing.T) {
	mockSvc := &availabilityServiceMock{err: appErrors.Clone(appErrors.ErrResourceNotFound, "vehicle not found")}
	h := NewAvailabilityHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/availability/vehicles/ghost?start_date=2025-03-01&end_date=2025-03-01", nil)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}
	h.Vehicle(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
