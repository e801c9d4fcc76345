package repository

import (
	"context"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para clientes localizados.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	// List intersecta con el alcance: UserIDs restringe por vendedor asignado.
	List(ctx context.Context, scope Scope, limit, offset int) ([]*entity.Client, error)
}
