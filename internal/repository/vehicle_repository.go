package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fieldwise/fsm-api/internal/models"
)

const vehicleColumns = "id, plate, model, active, created_at"

// VehicleRepository reads the vehicle fleet.
type VehicleRepository struct {
	db *sqlx.DB
}

// NewVehicleRepository constructs a vehicle repository.
func NewVehicleRepository(db *sqlx.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// List returns vehicles with optional search and active filters.
func (r *VehicleRepository) List(ctx context.Context, filter models.ReferenceFilter) ([]models.Vehicle, int, error) {
	base := "FROM vehicles"
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(plate ILIKE $%d OR model ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Active != nil {
		where = append(where, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	whereClause := strings.Join(where, " AND ")

	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY plate ASC LIMIT %d OFFSET %d",
		vehicleColumns, base, whereClause, size, (page-1)*size)

	var vehicles []models.Vehicle
	if err := r.db.SelectContext(ctx, &vehicles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list vehicles: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause), args...); err != nil {
		return nil, 0, fmt.Errorf("count vehicles: %w", err)
	}
	return vehicles, total, nil
}

// ListAll returns the whole fleet, for reference-data joins.
func (r *VehicleRepository) ListAll(ctx context.Context) ([]models.Vehicle, error) {
	query := fmt.Sprintf("SELECT %s FROM vehicles ORDER BY plate ASC", vehicleColumns)
	var vehicles []models.Vehicle
	if err := r.db.SelectContext(ctx, &vehicles, query); err != nil {
		return nil, fmt.Errorf("list all vehicles: %w", err)
	}
	return vehicles, nil
}

// FindByID fetches a vehicle.
func (r *VehicleRepository) FindByID(ctx context.Context, id string) (*models.Vehicle, error) {
	query := fmt.Sprintf("SELECT %s FROM vehicles WHERE id = $1", vehicleColumns)
	var vehicle models.Vehicle
	if err := r.db.GetContext(ctx, &vehicle, query, id); err != nil {
		return nil, err
	}
	return &vehicle, nil
}
