package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fieldwise/fsm-api/internal/models"
)

const technicianColumns = "id, first_name, last_name, phone, active, created_at"

// TechnicianRepository reads the technician roster.
type TechnicianRepository struct {
	db *sqlx.DB
}

// NewTechnicianRepository constructs a technician repository.
func NewTechnicianRepository(db *sqlx.DB) *TechnicianRepository {
	return &TechnicianRepository{db: db}
}

// List returns technicians with optional search and active filters.
func (r *TechnicianRepository) List(ctx context.Context, filter models.ReferenceFilter) ([]models.Technician, int, error) {
	base := "FROM technicians"
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Active != nil {
		where = append(where, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	whereClause := strings.Join(where, " AND ")

	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY last_name ASC, first_name ASC LIMIT %d OFFSET %d",
		technicianColumns, base, whereClause, size, (page-1)*size)

	var technicians []models.Technician
	if err := r.db.SelectContext(ctx, &technicians, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list technicians: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause), args...); err != nil {
		return nil, 0, fmt.Errorf("count technicians: %w", err)
	}
	return technicians, total, nil
}

// ListAll returns the whole roster, for reference-data joins.
func (r *TechnicianRepository) ListAll(ctx context.Context) ([]models.Technician, error) {
	query := fmt.Sprintf("SELECT %s FROM technicians ORDER BY last_name ASC, first_name ASC", technicianColumns)
	var technicians []models.Technician
	if err := r.db.SelectContext(ctx, &technicians, query); err != nil {
		return nil, fmt.Errorf("list all technicians: %w", err)
	}
	return technicians, nil
}

// FindByID fetches a technician.
func (r *TechnicianRepository) FindByID(ctx context.Context, id string) (*models.Technician, error) {
	query := fmt.Sprintf("SELECT %s FROM technicians WHERE id = $1", technicianColumns)
	var technician models.Technician
	if err := r.db.GetContext(ctx, &technician, query, id); err != nil {
		return nil, err
	}
	return &technician, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 50
	}
	return page, size
}
