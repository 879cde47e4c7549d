package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldwise/fsm-api/internal/dto"
	"github.com/fieldwise/fsm-api/internal/models"
	"github.com/fieldwise/fsm-api/internal/service"
	appErrors "github.com/fieldwise/fsm-api/pkg/errors"
)

type planningServiceMock struct {
	saveResp   *dto.SavePlanningResult
	saveErr    error
	getResp    *models.PlanningRecord
	getErr     error
	listResp   []models.PlanningRecord
	listErr    error
	deleteErr  error
	lastMode   service.SaveMode
	lastID     string
	lastFilter models.PlanningFilter
	saveCalled bool
}

func (m *planningServiceMock) Save(ctx context.Context, id string, req dto.SavePlanningRequest, mode service.SaveMode) (*dto.SavePlanningResult, error) {
	m.saveCalled = true
	m.lastID = id
	m.lastMode = mode
	return m.saveResp, m.saveErr
}

func (m *planningServiceMock) Get(ctx context.Context, id string) (*models.PlanningRecord, error) {
	m.lastID = id
	return m.getResp, m.getErr
}

func (m *planningServiceMock) List(ctx context.Context, filter models.PlanningFilter) ([]models.PlanningRecord, *models.Pagination, error) {
	m.lastFilter = filter
	return m.listResp, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(m.listResp)}, m.listErr
}

func (m *planningServiceMock) Delete(ctx context.Context, id string) error {
	m.lastID = id
	return m.deleteErr
}

type lifecycleServiceMock struct {
	resp       *models.PlanningRecord
	err        error
	lastTarget models.PlanningStatus
}

func (m *lifecycleServiceMock) ChangeStatus(ctx context.Context, id string, target models.PlanningStatus) (*models.PlanningRecord, error) {
	m.lastTarget = target
	return m.resp, m.err
}

func testContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	return c, w
}

func TestPlanningHandlerCreateReturnsWarnings(t *testing.T) {
	mockSvc := &planningServiceMock{saveResp: &dto.SavePlanningResult{
		Records:  []models.PlanningRecord{{ID: "p1", Status: models.PlanningStatusPlanned}},
		Warnings: []string{"technician Mario Rossi is already planned from 2025-03-01 to 2025-03-01"},
	}}
	h := NewPlanningHandler(mockSvc, &lifecycleServiceMock{})

	payload, err := json.Marshal(dto.SavePlanningRequest{
		JobID:         ptr("j1"),
		StartDate:     "2025-03-01",
		EndDate:       "2025-03-01",
		AllDay:        true,
		TechnicianIDs: []string{"t1"},
	})
	require.NoError(t, err)

	c, w := testContext(t, http.MethodPost, "/plannings", payload)
	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.saveCalled)
	assert.Equal(t, service.SaveModeCreate, mockSvc.lastMode)

	var envelope struct {
		Data dto.SavePlanningResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Records, 1)
	require.Len(t, envelope.Data.Warnings, 1)
	assert.Contains(t, envelope.Data.Warnings[0], "already planned")
}

func TestPlanningHandlerCreateInvalidBody(t *testing.T) {
	h := NewPlanningHandler(&planningServiceMock{}, &lifecycleServiceMock{})

	c, w := testContext(t, http.MethodPost, "/plannings", []byte(`{"start_date":`))
	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanningHandlerCreateServiceError(t *testing.T) {
	mockSvc := &planningServiceMock{saveErr: appErrors.Clone(appErrors.ErrValidation, "start_date must not be after end_date")}
	h := NewPlanningHandler(mockSvc, &lifecycleServiceMock{})

	payload, _ := json.Marshal(dto.SavePlanningRequest{StartDate: "2025-03-05", EndDate: "2025-03-01", TechnicianIDs: []string{"t1"}})
	c, w := testContext(t, http.MethodPost, "/plannings", payload)
	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanningHandlerUpdateUsesPathID(t *testing.T) {
	mockSvc := &planningServiceMock{saveResp: &dto.SavePlanningResult{Records: []models.PlanningRecord{{ID: "p1"}}, Warnings: []string{}}}
	h := NewPlanningHandler(mockSvc, &lifecycleServiceMock{})

	payload, _ := json.Marshal(dto.SavePlanningRequest{JobID: ptr("j1"), StartDate: "2025-03-01", EndDate: "2025-03-01", AllDay: true, TechnicianIDs: []string{"t1"}})
	c, w := testContext(t, http.MethodPut, "/plannings/p1", payload)
	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	h.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p1", mockSvc.lastID)
	assert.Equal(t, service.SaveModeUpdate, mockSvc.lastMode)
}

func TestPlanningHandlerListParsesFilters(t *testing.T) {
	mockSvc := &planningServiceMock{listResp: []models.PlanningRecord{{ID: "p1"}}}
	h := NewPlanningHandler(mockSvc, &lifecycleServiceMock{})

	c, w := testContext(t, http.MethodGet, "/plannings?from=2025-03-01&to=2025-03-31&technician_id=t1&status=Confermata&page=2&limit=25", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t1", mockSvc.lastFilter.TechnicianID)
	assert.Equal(t, models.PlanningStatusConfirmed, mockSvc.lastFilter.Status)
	assert.Equal(t, 2, mockSvc.lastFilter.Page)
	assert.Equal(t, 25, mockSvc.lastFilter.PageSize)
	require.NotNil(t, mockSvc.lastFilter.From)
	assert.Equal(t, "2025-03-01", mockSvc.lastFilter.From.Format("2006-01-02"))
}

func TestPlanningHandlerListBadDate(t *testing.T) {
	h := NewPlanningHandler(&planningServiceMock{}, &lifecycleServiceMock{})

	c, w := testContext(t, http.MethodGet, "/plannings?from=01-03-2025", nil)
	h.List(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanningHandlerGetNotFound(t *testing.T) {
	mockSvc := &planningServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "planning not found")}
	h := NewPlanningHandler(mockSvc, &lifecycleServiceMock{})

	c, w := testContext(t, http.MethodGet, "/plannings/ghost", nil)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}
	h.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlanningHandlerDelete(t *testing.T) {
	mockSvc := &planningServiceMock{}
	h := NewPlanningHandler(mockSvc, &lifecycleServiceMock{})

	c, w := testContext(t, http.MethodDelete, "/plannings/p1", nil)
	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	h.Delete(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "p1", mockSvc.lastID)
}

func TestPlanningHandlerChangeStatus(t *testing.T) {
	lifecycle := &lifecycleServiceMock{resp: &models.PlanningRecord{ID: "p1", Status: models.PlanningStatusConfirmed}}
	h := NewPlanningHandler(&planningServiceMock{}, lifecycle)

	payload, _ := json.Marshal(dto.ChangeStatusRequest{Status: "Confermata"})
	c, w := testContext(t, http.MethodPatch, "/plannings/p1/status", payload)
	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	h.ChangeStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.PlanningStatusConfirmed, lifecycle.lastTarget)
}

func TestPlanningHandlerChangeStatusIllegal(t *testing.T) {
	lifecycle := &lifecycleServiceMock{err: appErrors.Clone(appErrors.ErrInvalidTransition, `cannot move planning from "Cancellata" to "Completata"`)}
	h := NewPlanningHandler(&planningServiceMock{}, lifecycle)

	payload, _ := json.Marshal(dto.ChangeStatusRequest{Status: "Completata"})
	c, w := testContext(t, http.MethodPatch, "/plannings/p1/status", payload)
	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	h.ChangeStatus(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func ptr(v string) *string {
	return &v
}
