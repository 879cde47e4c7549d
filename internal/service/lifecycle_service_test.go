package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldwise/fsm-api/internal/models"
	appErrors "github.com/fieldwise/fsm-api/pkg/errors"
)

type lifecycleRepoStub struct {
	records       map[string]*models.PlanningRecord
	getErr        error
	updateErr     error
	statusUpdates []models.PlanningStatus
}

func (s *lifecycleRepoStub) GetByID(ctx context.Context, id string) (*models.PlanningRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if record, ok := s.records[id]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *lifecycleRepoStub) UpdateStatus(ctx context.Context, id string, status models.PlanningStatus) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.statusUpdates = append(s.statusUpdates, status)
	if record, ok := s.records[id]; ok {
		record.Status = status
	}
	return nil
}

func TestCanTransitionTable(t *testing.T) {
	all := []models.PlanningStatus{
		models.PlanningStatusPlanned,
		models.PlanningStatusConfirmed,
		models.PlanningStatusInProgress,
		models.PlanningStatusCompleted,
		models.PlanningStatusCancelled,
	}
	allowed := map[models.PlanningStatus][]models.PlanningStatus{
		models.PlanningStatusPlanned:    {models.PlanningStatusConfirmed, models.PlanningStatusInProgress, models.PlanningStatusCancelled},
		models.PlanningStatusConfirmed:  {models.PlanningStatusInProgress, models.PlanningStatusPlanned, models.PlanningStatusCancelled},
		models.PlanningStatusInProgress: {models.PlanningStatusCompleted, models.PlanningStatusConfirmed, models.PlanningStatusCancelled},
		models.PlanningStatusCompleted:  {models.PlanningStatusInProgress, models.PlanningStatusCancelled},
		models.PlanningStatusCancelled:  {models.PlanningStatusPlanned},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, target := range allowed[from] {
				if target == to {
					want = true
				}
			}
			assert.Equalf(t, want, CanTransition(from, to), "transition %s -> %s", from, to)
		}
	}
}

func TestCanTransitionRejectsSelf(t *testing.T) {
	for from := range allowedTransitions {
		assert.Falsef(t, CanTransition(from, from), "self transition %s", from)
	}
}

func TestAllowedTargetsCopies(t *testing.T) {
	targets := AllowedTargets(models.PlanningStatusCancelled)
	require.Equal(t, []models.PlanningStatus{models.PlanningStatusPlanned}, targets)

	targets[0] = models.PlanningStatusCompleted
	assert.Equal(t, []models.PlanningStatus{models.PlanningStatusPlanned}, AllowedTargets(models.PlanningStatusCancelled))
}

func TestChangeStatusSuccess(t *testing.T) {
	repo := &lifecycleRepoStub{records: map[string]*models.PlanningRecord{
		"p1": {ID: "p1", Status: models.PlanningStatusPlanned},
	}}
	svc := NewLifecycleService(repo, nil)

	record, err := svc.ChangeStatus(context.Background(), "p1", models.PlanningStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.PlanningStatusConfirmed, record.Status)
	assert.Equal(t, []models.PlanningStatus{models.PlanningStatusConfirmed}, repo.statusUpdates)
}

func TestChangeStatusCancelRoundTrip(t *testing.T) {
	repo := &lifecycleRepoStub{records: map[string]*models.PlanningRecord{
		"p1": {ID: "p1", Status: models.PlanningStatusCancelled},
	}}
	svc := NewLifecycleService(repo, nil)

	record, err := svc.ChangeStatus(context.Background(), "p1", models.PlanningStatusPlanned)
	require.NoError(t, err)
	assert.Equal(t, models.PlanningStatusPlanned, record.Status)

	record, err = svc.ChangeStatus(context.Background(), "p1", models.PlanningStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.PlanningStatusCancelled, record.Status)
}

func TestChangeStatusIllegalTransition(t *testing.T) {
	repo := &lifecycleRepoStub{records: map[string]*models.PlanningRecord{
		"p1": {ID: "p1", Status: models.PlanningStatusCancelled},
	}}
	svc := NewLifecycleService(repo, nil)

	_, err := svc.ChangeStatus(context.Background(), "p1", models.PlanningStatusCompleted)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidTransition))
	assert.Empty(t, repo.statusUpdates)
}

func TestChangeStatusUnknownStatus(t *testing.T) {
	svc := NewLifecycleService(&lifecycleRepoStub{}, nil)

	_, err := svc.ChangeStatus(context.Background(), "p1", models.PlanningStatus("Sospesa"))
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestChangeStatusNotFound(t *testing.T) {
	svc := NewLifecycleService(&lifecycleRepoStub{records: map[string]*models.PlanningRecord{}}, nil)

	_, err := svc.ChangeStatus(context.Background(), "missing", models.PlanningStatusConfirmed)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
