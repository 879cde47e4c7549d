package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fieldwise/fsm-api/internal/models"
	appErrors "github.com/fieldwise/fsm-api/pkg/errors"
)

type overlapLister interface {
	ListOverlapping(ctx context.Context, kind models.ResourceKind, resourceID string, startDate, endDate time.Time, excludeID string) ([]models.PlanningRecord, error)
}

type technicianFinder interface {
	FindByID(ctx context.Context, id string) (*models.Technician, error)
}

type vehicleFinder interface {
	FindByID(ctx context.Context, id string) (*models.Vehicle, error)
}

// Window is the queried booking interval. Times are HH:MM and ignored when
// AllDay is set.
type Window struct {
	StartDate time.Time
	EndDate   time.Time
	StartTime *string
	EndTime   *string
	AllDay    bool
}

// AvailabilityService answers advisory availability questions for technicians
// and vehicles. It mirrors the reference predicates is_tecnico_disponibile
// and is_mezzo_disponibile: vehicles are checked at whole-day granularity,
// technicians down to time-of-day when both sides carry times.
type AvailabilityService struct {
	plannings   overlapLister
	technicians technicianFinder
	vehicles    vehicleFinder
	logger      *zap.Logger
}

// NewAvailabilityService constructs the checker.
func NewAvailabilityService(plannings overlapLister, technicians technicianFinder, vehicles vehicleFinder, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{plannings: plannings, technicians: technicians, vehicles: vehicles, logger: logger}
}

// IsTechnicianAvailable reports whether no other planning books the
// technician in an overlapping window.
func (s *AvailabilityService) IsTechnicianAvailable(ctx context.Context, technicianID string, w Window, excludeID string) (bool, error) {
	conflicts, err := s.TechnicianConflicts(ctx, technicianID, w, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// TechnicianConflicts returns the plannings conflicting with the window for
// the given technician.
func (s *AvailabilityService) TechnicianConflicts(ctx context.Context, technicianID string, w Window, excludeID string) ([]models.PlanningRecord, error) {
	if _, err := s.technicians.FindByID(ctx, technicianID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrResourceNotFound, "technician not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load technician")
	}

	candidates, err := s.plannings.ListOverlapping(ctx, models.ResourceTechnician, technicianID, truncateToDay(w.StartDate), truncateToDay(w.EndDate), excludeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check technician availability")
	}

	conflicts := make([]models.PlanningRecord, 0, len(candidates))
	for _, candidate := range candidates {
		if windowsOverlap(w, candidate) {
			conflicts = append(conflicts, candidate)
		}
	}
	return conflicts, nil
}

// IsVehicleAvailable reports whether no other planning books the vehicle
// (as primary or secondary) on an intersecting date range.
func (s *AvailabilityService) IsVehicleAvailable(ctx context.Context, vehicleID string, w Window, excludeID string) (bool, error) {
	conflicts, err := s.VehicleConflicts(ctx, vehicleID, w, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// VehicleConflicts returns the plannings conflicting with the window for the
// given vehicle. Vehicle checks are whole-day: any date intersection counts.
func (s *AvailabilityService) VehicleConflicts(ctx context.Context, vehicleID string, w Window, excludeID string) ([]models.PlanningRecord, error) {
	if _, err := s.vehicles.FindByID(ctx, vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrResourceNotFound, "vehicle not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vehicle")
	}

	conflicts, err := s.plannings.ListOverlapping(ctx, models.ResourceVehicle, vehicleID, truncateToDay(w.StartDate), truncateToDay(w.EndDate), excludeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check vehicle availability")
	}
	return conflicts, nil
}

// windowsOverlap refines a date-intersecting candidate. Once either side is
// all-day (or lacks times) the date intersection established by the query is
// the answer; two timed windows compare as instants.
func windowsOverlap(w Window, record models.PlanningRecord) bool {
	if w.AllDay || record.AllDay {
		return true
	}
	if w.StartTime == nil || w.EndTime == nil || record.StartTime == nil || record.EndTime == nil {
		return true
	}

	qStart, ok1 := combineDateTime(w.StartDate, *w.StartTime)
	qEnd, ok2 := combineDateTime(w.EndDate, *w.EndTime)
	cStart, ok3 := combineDateTime(record.StartDate, *record.StartTime)
	cEnd, ok4 := combineDateTime(record.EndDate, *record.EndTime)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return true
	}

	return qStart.Before(cEnd) && cStart.Before(qEnd)
}

func combineDateTime(date time.Time, clock string) (time.Time, bool) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.UTC), true
}
