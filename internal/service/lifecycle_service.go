package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fieldwise/fsm-api/internal/models"
	appErrors "github.com/fieldwise/fsm-api/pkg/errors"
)

// allowedTransitions is the status state machine. Cancellata is re-enterable
// through Pianificata only.
var allowedTransitions = map[models.PlanningStatus][]models.PlanningStatus{
	models.PlanningStatusPlanned:    {models.PlanningStatusConfirmed, models.PlanningStatusInProgress, models.PlanningStatusCancelled},
	models.PlanningStatusConfirmed:  {models.PlanningStatusInProgress, models.PlanningStatusPlanned, models.PlanningStatusCancelled},
	models.PlanningStatusInProgress: {models.PlanningStatusCompleted, models.PlanningStatusConfirmed, models.PlanningStatusCancelled},
	models.PlanningStatusCompleted:  {models.PlanningStatusInProgress, models.PlanningStatusCancelled},
	models.PlanningStatusCancelled:  {models.PlanningStatusPlanned},
}

type lifecycleRepository interface {
	GetByID(ctx context.Context, id string) (*models.PlanningRecord, error)
	UpdateStatus(ctx context.Context, id string, status models.PlanningStatus) error
}

// LifecycleService enforces the planning status state machine. Operator
// confirmation is a caller precondition; this service validates and persists
// exactly one transition per call.
type LifecycleService struct {
	repo   lifecycleRepository
	logger *zap.Logger
}

// NewLifecycleService constructs the lifecycle manager.
func NewLifecycleService(repo lifecycleRepository, logger *zap.Logger) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{repo: repo, logger: logger}
}

// CanTransition reports whether the state machine allows from → to.
func CanTransition(from, to models.PlanningStatus) bool {
	for _, target := range allowedTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the legal targets from the given status.
func AllowedTargets(from models.PlanningStatus) []models.PlanningStatus {
	targets := allowedTransitions[from]
	out := make([]models.PlanningStatus, len(targets))
	copy(out, targets)
	return out
}

// ChangeStatus moves a planning record to a new lifecycle state.
func (s *LifecycleService) ChangeStatus(ctx context.Context, id string, target models.PlanningStatus) (*models.PlanningRecord, error) {
	if !target.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", target))
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "planning not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planning")
	}

	if !CanTransition(record.Status, target) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move planning from %q to %q", record.Status, target))
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist status change")
	}

	s.logger.Info("planning status changed",
		zap.String("planning_id", id),
		zap.String("from", string(record.Status)),
		zap.String("to", string(target)),
	)

	record.Status = target
	return record, nil
}
