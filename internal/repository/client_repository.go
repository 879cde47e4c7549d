package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fieldwise/fsm-api/internal/models"
)

const clientColumns = "id, name, city, phone, active, created_at"

// ClientRepository reads the client registry.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository constructs a client repository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// List returns clients with optional search and active filters.
func (r *ClientRepository) List(ctx context.Context, filter models.ReferenceFilter) ([]models.Client, int, error) {
	base := "FROM clients"
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Active != nil {
		where = append(where, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	whereClause := strings.Join(where, " AND ")

	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY name ASC LIMIT %d OFFSET %d",
		clientColumns, base, whereClause, size, (page-1)*size)

	var clients []models.Client
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause), args...); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}
	return clients, total, nil
}

// ListAll returns the whole registry, for reference-data joins.
func (r *ClientRepository) ListAll(ctx context.Context) ([]models.Client, error) {
	query := fmt.Sprintf("SELECT %s FROM clients ORDER BY name ASC", clientColumns)
	var clients []models.Client
	if err := r.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, fmt.Errorf("list all clients: %w", err)
	}
	return clients, nil
}

// FindByID fetches a client.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (*models.Client, error) {
	query := fmt.Sprintf("SELECT %s FROM clients WHERE id = $1", clientColumns)
	var client models.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		return nil, err
	}
	return &client, nil
}
