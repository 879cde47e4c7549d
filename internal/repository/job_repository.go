package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fieldwise/fsm-api/internal/models"
)

const jobColumns = "id, code, description, client_id, active, created_at"

// JobRepository reads the job (commessa) registry.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository constructs a job repository.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// List returns jobs with optional search and active filters.
func (r *JobRepository) List(ctx context.Context, filter models.ReferenceFilter) ([]models.Job, int, error) {
	base := "FROM jobs"
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(code ILIKE $%d OR description ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Active != nil {
		where = append(where, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	whereClause := strings.Join(where, " AND ")

	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY code ASC LIMIT %d OFFSET %d",
		jobColumns, base, whereClause, size, (page-1)*size)

	var jobs []models.Job
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause), args...); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}
	return jobs, total, nil
}

// ListAll returns every job, for reference-data joins.
func (r *JobRepository) ListAll(ctx context.Context) ([]models.Job, error) {
	query := fmt.Sprintf("SELECT %s FROM jobs ORDER BY code ASC", jobColumns)
	var jobs []models.Job
	if err := r.db.SelectContext(ctx, &jobs, query); err != nil {
		return nil, fmt.Errorf("list all jobs: %w", err)
	}
	return jobs, nil
}

// FindByID fetches a job.
func (r *JobRepository) FindByID(ctx context.Context, id string) (*models.Job, error) {
	query := fmt.Sprintf("SELECT %s FROM jobs WHERE id = $1", jobColumns)
	var job models.Job
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}
