package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fieldwise/fsm-api/internal/dto"
	"github.com/fieldwise/fsm-api/internal/models"
	appErrors "github.com/fieldwise/fsm-api/pkg/errors"
)

// SaveMode distinguishes create from full edit.
type SaveMode string

const (
	SaveModeCreate SaveMode = "create"
	SaveModeUpdate SaveMode = "update"
)

const dateLayout = "2006-01-02"

type planningRepository interface {
	List(ctx context.Context, filter models.PlanningFilter) ([]models.PlanningRecord, int, error)
	GetByID(ctx context.Context, id string) (*models.PlanningRecord, error)
	Insert(ctx context.Context, record *models.PlanningRecord) error
	Update(ctx context.Context, record *models.PlanningRecord) error
	Delete(ctx context.Context, id string) error
}

type conflictFinder interface {
	TechnicianConflicts(ctx context.Context, technicianID string, w Window, excludeID string) ([]models.PlanningRecord, error)
	VehicleConflicts(ctx context.Context, vehicleID string, w Window, excludeID string) ([]models.PlanningRecord, error)
}

type technicianNamer interface {
	Technicians(ctx context.Context) ([]models.Technician, error)
}

// PlanningOptions governs orchestration behaviour.
type PlanningOptions struct {
	// EnforceConflicts upgrades availability warnings to blocking CONFLICT
	// errors. The default keeps the detect-don't-prevent policy: double
	// booking is allowed, only flagged.
	EnforceConflicts bool
	// MaxOccurrences caps recurrence fan-out.
	MaxOccurrences int
}

// PlanningService orchestrates conflict-aware saves: structural validation,
// recurrence fan-out, advisory availability checks, normalization and
// persistence.
type PlanningService struct {
	repo         planningRepository
	availability conflictFinder
	refs         technicianNamer
	validator    *validator.Validate
	logger       *zap.Logger
	opts         PlanningOptions
}

// NewPlanningService constructs the orchestrator.
func NewPlanningService(repo planningRepository, availability conflictFinder, refs technicianNamer, validate *validator.Validate, logger *zap.Logger, opts PlanningOptions) *PlanningService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxOccurrences <= 0 {
		opts.MaxOccurrences = 180
	}
	return &PlanningService{repo: repo, availability: availability, refs: refs, validator: validate, logger: logger, opts: opts}
}

// Save validates, checks availability and persists one planning record, or a
// whole batch when a recurrence rule fans out on create. Conflicts are
// returned as warnings alongside the persisted records; they never block the
// save unless conflict enforcement is configured.
func (s *PlanningService) Save(ctx context.Context, id string, req dto.SavePlanningRequest, mode SaveMode) (*dto.SavePlanningResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid planning payload")
	}

	base, err := s.buildRecord(req)
	if err != nil {
		return nil, err
	}

	excludeID := ""
	switch mode {
	case SaveModeCreate:
		base.Status = models.PlanningStatusPlanned
	case SaveModeUpdate:
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "planning not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planning")
		}
		base.ID = existing.ID
		base.CreatedAt = existing.CreatedAt
		// Status moves only through the lifecycle endpoint.
		base.Status = existing.Status
		excludeID = existing.ID
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown save mode %q", mode))
	}

	drafts := []models.PlanningRecord{*base}
	if mode == SaveModeCreate && req.Recurring {
		drafts, err = s.expandDrafts(*base, req)
		if err != nil {
			return nil, err
		}
	}

	result := &dto.SavePlanningResult{Warnings: []string{}}
	for _, draft := range drafts {
		warnings, err := s.conflictWarnings(ctx, draft, excludeID)
		if err != nil {
			return nil, err
		}
		result.Warnings = append(result.Warnings, warnings...)

		if s.opts.EnforceConflicts && len(warnings) > 0 {
			return nil, appErrors.Clone(appErrors.ErrConflict, strings.Join(warnings, "; "))
		}

		if err := s.persist(ctx, &draft, mode); err != nil {
			if len(drafts) > 1 {
				result.Failures = append(result.Failures, dto.SaveFailure{
					Date:   draft.StartDate.Format(dateLayout),
					Reason: err.Error(),
				})
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist planning")
		}
		result.Records = append(result.Records, draft)
	}

	s.logger.Info("plannings saved",
		zap.String("mode", string(mode)),
		zap.Int("records", len(result.Records)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Int("failures", len(result.Failures)),
	)
	return result, nil
}

// Get returns a planning record by id.
func (s *PlanningService) Get(ctx context.Context, id string) (*models.PlanningRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "planning not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get planning")
	}
	return record, nil
}

// List returns planning records with pagination.
func (s *PlanningService) List(ctx context.Context, filter models.PlanningFilter) ([]models.PlanningRecord, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 100
	}
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plannings")
	}
	return records, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Delete removes a planning record. Immediate and irreversible.
func (s *PlanningService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "planning not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planning")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete planning")
	}
	return nil
}

// buildRecord validates the structural invariants and produces a normalized
// record. Fails fast on the first violation; nothing is persisted.
func (s *PlanningService) buildRecord(req dto.SavePlanningRequest) (*models.PlanningRecord, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be formatted YYYY-MM-DD")
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be formatted YYYY-MM-DD")
	}
	if startDate.After(endDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must not be after end_date")
	}

	sheetID := nilIfEmpty(req.SheetID)
	jobID := nilIfEmpty(req.JobID)
	if sheetID == nil && jobID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "planning must reference a service sheet or a job")
	}

	technicians := compact(req.TechnicianIDs)
	if len(technicians) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one technician must be assigned")
	}

	startTime := nilIfEmpty(req.StartTime)
	endTime := nilIfEmpty(req.EndTime)
	if req.AllDay {
		startTime, endTime = nil, nil
	} else {
		if startTime == nil || endTime == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start_time and end_time are required unless the planning is all-day")
		}
		if startDate.Equal(endDate) && *startTime >= *endTime {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time on a single-day planning")
		}
	}

	vehicleID := nilIfEmpty(req.VehicleID)
	secondary := compact(req.SecondaryVehicleIDs)
	if vehicleID != nil {
		for _, sv := range secondary {
			if sv == *vehicleID {
				return nil, appErrors.Clone(appErrors.ErrValidation, "secondary vehicles must not include the primary vehicle")
			}
		}
	}

	return &models.PlanningRecord{
		SheetID:             sheetID,
		JobID:               jobID,
		ClientID:            nilIfEmpty(req.ClientID),
		StartDate:           truncateToDay(startDate),
		EndDate:             truncateToDay(endDate),
		StartTime:           startTime,
		EndTime:             endTime,
		AllDay:              req.AllDay,
		SkipSaturday:        req.SkipSaturday,
		SkipSunday:          req.SkipSunday,
		SkipHolidays:        req.SkipHolidays,
		TechnicianIDs:       technicians,
		VehicleID:           vehicleID,
		SecondaryVehicleIDs: secondary,
		Description:         req.Description,
	}, nil
}

// expandDrafts fans a recurring template out into one independent draft per
// occurrence date. Every generated record is single-day and non-recurring.
func (s *PlanningService) expandDrafts(base models.PlanningRecord, req dto.SavePlanningRequest) ([]models.PlanningRecord, error) {
	var recurrenceEnd *time.Time
	if req.RecurrenceEnd != nil && *req.RecurrenceEnd != "" {
		parsed, err := time.Parse(dateLayout, *req.RecurrenceEnd)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "recurrence_end must be formatted YYYY-MM-DD")
		}
		recurrenceEnd = &parsed
	}

	dates, err := ExpandOccurrences(req.Weekdays, base.StartDate, base.EndDate, recurrenceEnd)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "recurrence matches no dates in the planning range")
	}
	if len(dates) > s.opts.MaxOccurrences {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("recurrence expands to %d plannings, above the limit of %d", len(dates), s.opts.MaxOccurrences))
	}

	drafts := make([]models.PlanningRecord, 0, len(dates))
	for _, date := range dates {
		draft := base
		draft.ID = ""
		draft.StartDate = date
		draft.EndDate = date
		draft.TechnicianIDs = append([]string(nil), base.TechnicianIDs...)
		draft.SecondaryVehicleIDs = append([]string(nil), base.SecondaryVehicleIDs...)
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// conflictWarnings runs the availability checks for every assigned resource.
// All checks complete before the record is persisted; findings are data, not
// errors.
func (s *PlanningService) conflictWarnings(ctx context.Context, record models.PlanningRecord, excludeID string) ([]string, error) {
	w := Window{
		StartDate: record.StartDate,
		EndDate:   record.EndDate,
		StartTime: record.StartTime,
		EndTime:   record.EndTime,
		AllDay:    record.AllDay,
	}

	var warnings []string
	for _, technicianID := range record.TechnicianIDs {
		conflicts, err := s.availability.TechnicianConflicts(ctx, technicianID, w, excludeID)
		if err != nil {
			return nil, err
		}
		for _, conflict := range conflicts {
			warnings = append(warnings, fmt.Sprintf("technician %s is already planned from %s to %s",
				s.technicianName(ctx, technicianID), conflict.StartDate.Format(dateLayout), conflict.EndDate.Format(dateLayout)))
		}
	}

	vehicleIDs := make([]string, 0, 1+len(record.SecondaryVehicleIDs))
	if record.VehicleID != nil {
		vehicleIDs = append(vehicleIDs, *record.VehicleID)
	}
	vehicleIDs = append(vehicleIDs, record.SecondaryVehicleIDs...)
	for _, vehicleID := range vehicleIDs {
		conflicts, err := s.availability.VehicleConflicts(ctx, vehicleID, w, excludeID)
		if err != nil {
			return nil, err
		}
		for _, conflict := range conflicts {
			warnings = append(warnings, fmt.Sprintf("vehicle %s is already planned from %s to %s",
				vehicleID, conflict.StartDate.Format(dateLayout), conflict.EndDate.Format(dateLayout)))
		}
	}
	return warnings, nil
}

func (s *PlanningService) persist(ctx context.Context, record *models.PlanningRecord, mode SaveMode) error {
	if mode == SaveModeUpdate {
		return s.repo.Update(ctx, record)
	}
	return s.repo.Insert(ctx, record)
}

// technicianName resolves a display name for warning messages, falling back
// to the raw id.
func (s *PlanningService) technicianName(ctx context.Context, id string) string {
	if s.refs == nil {
		return id
	}
	technicians, err := s.refs.Technicians(ctx)
	if err != nil {
		return id
	}
	for _, t := range technicians {
		if t.ID == id {
			return t.FullName()
		}
	}
	return id
}

func nilIfEmpty(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
