package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación del puerto ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	db Querier
}

func NewClientRepository(db Querier) *ClientRepo {
	return &ClientRepo{db: db}
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, company_id, vendedor_id, name, phone, address,
			latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.CompanyID, c.VendedorID, c.Name, c.Phone, c.Address,
		c.Latitude, c.Longitude, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// List intersecta con el alcance: UserIDs restringe por vendedor asignado.
func (r *ClientRepo) List(ctx context.Context, scope repository.Scope, limit, offset int) ([]*entity.Client, error) {
	if scope.Nothing {
		return nil, nil
	}

	query := `
		SELECT id, company_id, vendedor_id, name, phone, address,
			latitude, longitude, created_at, updated_at
		FROM clients WHERE true`
	args := []any{}
	if !scope.All {
		if scope.CompanyID != "" {
			args = append(args, scope.CompanyID)
			query += fmt.Sprintf(" AND company_id = $%d", len(args))
		}
		if len(scope.UserIDs) > 0 {
			args = append(args, scope.UserIDs)
			query += fmt.Sprintf(" AND vendedor_id = ANY($%d)", len(args))
		}
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.VendedorID, &c.Name, &c.Phone, &c.Address,
			&c.Latitude, &c.Longitude, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
