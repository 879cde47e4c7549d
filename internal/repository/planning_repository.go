package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fieldwise/fsm-api/internal/models"
)

const planningColumns = `id, sheet_id, job_id, client_id, start_date, end_date, start_time, end_time, all_day,
skip_saturday, skip_sunday, skip_holidays, technician_ids, vehicle_id, secondary_vehicle_ids, status, description, created_at, updated_at`

// PlanningRepository persists planning records.
type PlanningRepository struct {
	db *sqlx.DB
}

// NewPlanningRepository constructs a planning repository.
func NewPlanningRepository(db *sqlx.DB) *PlanningRepository {
	return &PlanningRepository{db: db}
}

// List returns planning records matching filters.
func (r *PlanningRepository) List(ctx context.Context, filter models.PlanningFilter) ([]models.PlanningRecord, int, error) {
	base := "FROM plannings"
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.From != nil {
		where = append(where, fmt.Sprintf("end_date >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		where = append(where, fmt.Sprintf("start_date <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}
	if filter.TechnicianID != "" {
		where = append(where, fmt.Sprintf("$%d = ANY(technician_ids)", len(args)+1))
		args = append(args, filter.TechnicianID)
	}
	if filter.VehicleID != "" {
		where = append(where, fmt.Sprintf("(vehicle_id = $%d OR $%d = ANY(secondary_vehicle_ids))", len(args)+1, len(args)+1))
		args = append(args, filter.VehicleID)
	}
	if filter.JobID != "" {
		where = append(where, fmt.Sprintf("job_id = $%d", len(args)+1))
		args = append(args, filter.JobID)
	}
	if filter.SheetID != "" {
		where = append(where, fmt.Sprintf("sheet_id = $%d", len(args)+1))
		args = append(args, filter.SheetID)
	}
	if filter.ClientID != "" {
		where = append(where, fmt.Sprintf("client_id = $%d", len(args)+1))
		args = append(args, filter.ClientID)
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY start_date ASC, start_time ASC NULLS FIRST LIMIT %d OFFSET %d",
		planningColumns, base, whereClause, size, offset)
	var records []models.PlanningRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list plannings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count plannings: %w", err)
	}
	return records, total, nil
}

// GetByID fetches a planning record.
func (r *PlanningRepository) GetByID(ctx context.Context, id string) (*models.PlanningRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM plannings WHERE id = $1", planningColumns)
	var record models.PlanningRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// Insert stores a new planning record.
func (r *PlanningRepository) Insert(ctx context.Context, record *models.PlanningRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	query := `INSERT INTO plannings (id, sheet_id, job_id, client_id, start_date, end_date, start_time, end_time, all_day,
skip_saturday, skip_sunday, skip_holidays, technician_ids, vehicle_id, secondary_vehicle_ids, status, description, created_at, updated_at)
VALUES (:id, :sheet_id, :job_id, :client_id, :start_date, :end_date, :start_time, :end_time, :all_day,
:skip_saturday, :skip_sunday, :skip_holidays, :technician_ids, :vehicle_id, :secondary_vehicle_ids, :status, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("insert planning: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a planning record.
func (r *PlanningRepository) Update(ctx context.Context, record *models.PlanningRecord) error {
	record.UpdatedAt = time.Now().UTC()
	query := `UPDATE plannings SET sheet_id = :sheet_id, job_id = :job_id, client_id = :client_id,
start_date = :start_date, end_date = :end_date, start_time = :start_time, end_time = :end_time, all_day = :all_day,
skip_saturday = :skip_saturday, skip_sunday = :skip_sunday, skip_holidays = :skip_holidays,
technician_ids = :technician_ids, vehicle_id = :vehicle_id, secondary_vehicle_ids = :secondary_vehicle_ids,
status = :status, description = :description, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update planning: %w", err)
	}
	return nil
}

// UpdateStatus persists exactly one status value.
func (r *PlanningRepository) UpdateStatus(ctx context.Context, id string, status models.PlanningStatus) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE plannings SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update planning status: %w", err)
	}
	return nil
}

// Delete removes a planning record. Hard delete, no recycle bin.
func (r *PlanningRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM plannings WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete planning: %w", err)
	}
	return nil
}

// ListOverlapping returns candidate conflicts for a resource: records whose
// date range intersects the given window and that reference the resource as
// assigned technician or as primary/secondary vehicle. Time-of-day
// refinement is the caller's concern.
func (r *PlanningRepository) ListOverlapping(ctx context.Context, kind models.ResourceKind, resourceID string, startDate, endDate time.Time, excludeID string) ([]models.PlanningRecord, error) {
	var resourcePredicate string
	switch kind {
	case models.ResourceTechnician:
		resourcePredicate = "$1 = ANY(technician_ids)"
	case models.ResourceVehicle:
		resourcePredicate = "(vehicle_id = $1 OR $1 = ANY(secondary_vehicle_ids))"
	default:
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}

	query := fmt.Sprintf(`SELECT %s FROM plannings
WHERE %s AND start_date <= $2 AND end_date >= $3 AND ($4 = '' OR id <> $4)
ORDER BY start_date ASC`, planningColumns, resourcePredicate)

	var records []models.PlanningRecord
	if err := r.db.SelectContext(ctx, &records, query, resourceID, endDate, startDate, excludeID); err != nil {
		return nil, fmt.Errorf("list overlapping plannings: %w", err)
	}
	return records, nil
}
