package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fieldwise/fsm-api/internal/models"
)

const sheetColumns = "id, number, job_id, client_id, created_at"

// SheetRepository reads service sheets (fogli di assistenza).
type SheetRepository struct {
	db *sqlx.DB
}

// NewSheetRepository constructs a service-sheet repository.
func NewSheetRepository(db *sqlx.DB) *SheetRepository {
	return &SheetRepository{db: db}
}

// List returns service sheets with optional search filter.
func (r *SheetRepository) List(ctx context.Context, filter models.ReferenceFilter) ([]models.ServiceSheet, int, error) {
	base := "FROM service_sheets"
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("number ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	whereClause := strings.Join(where, " AND ")

	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY number ASC LIMIT %d OFFSET %d",
		sheetColumns, base, whereClause, size, (page-1)*size)

	var sheets []models.ServiceSheet
	if err := r.db.SelectContext(ctx, &sheets, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list service sheets: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause), args...); err != nil {
		return nil, 0, fmt.Errorf("count service sheets: %w", err)
	}
	return sheets, total, nil
}

// ListAll returns every sheet, for reference-data joins.
func (r *SheetRepository) ListAll(ctx context.Context) ([]models.ServiceSheet, error) {
	query := fmt.Sprintf("SELECT %s FROM service_sheets ORDER BY number ASC", sheetColumns)
	var sheets []models.ServiceSheet
	if err := r.db.SelectContext(ctx, &sheets, query); err != nil {
		return nil, fmt.Errorf("list all service sheets: %w", err)
	}
	return sheets, nil
}

// FindByID fetches a service sheet.
func (r *SheetRepository) FindByID(ctx context.Context, id string) (*models.ServiceSheet, error) {
	query := fmt.Sprintf("SELECT %s FROM service_sheets WHERE id = $1", sheetColumns)
	var sheet models.ServiceSheet
	if err := r.db.GetContext(ctx, &sheet, query, id); err != nil {
		return nil, err
	}
	return &sheet, nil
}
