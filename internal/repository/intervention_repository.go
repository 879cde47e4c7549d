package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fieldwise/fsm-api/internal/models"
)

// InterventionRepository reads logged work entries. Interventions are owned by
// the service-sheet module; this subsystem only consumes them.
type InterventionRepository struct {
	db *sqlx.DB
}

// NewInterventionRepository constructs an intervention reader.
func NewInterventionRepository(db *sqlx.DB) *InterventionRepository {
	return &InterventionRepository{db: db}
}

// List returns interventions matching filters, oldest first.
func (r *InterventionRepository) List(ctx context.Context, filter models.InterventionFilter) ([]models.InterventionRecord, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.From != nil {
		where = append(where, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		where = append(where, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}
	if filter.TechnicianID != "" {
		where = append(where, fmt.Sprintf("technician_id = $%d", len(args)+1))
		args = append(args, filter.TechnicianID)
	}
	if filter.SheetID != "" {
		where = append(where, fmt.Sprintf("sheet_id = $%d", len(args)+1))
		args = append(args, filter.SheetID)
	}

	query := fmt.Sprintf(`SELECT id, sheet_id, date, technician_id, work_hours, travel_hours, description, created_at
FROM interventions WHERE %s ORDER BY date ASC, created_at ASC`, strings.Join(where, " AND "))

	var records []models.InterventionRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list interventions: %w", err)
	}
	return records, nil
}
