package repository

import (
	"context"
	"time"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos Get* retornan (nil, nil) cuando el registro no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail busca por email normalizado, incluyendo inactivos y
	// eliminados; el llamador decide qué estados acepta.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) error
	// SoftDelete marca el tombstone; nunca borra la fila.
	SoftDelete(ctx context.Context, id string, at time.Time) error

	// List intersecta el listado con el predicado de alcance.
	List(ctx context.Context, scope Scope, limit, offset int) ([]*entity.User, error)

	// Lookups de directorio (cadena gerente/supervisor). Solo activos y no
	// eliminados.
	ListActive(ctx context.Context, role entity.Role, companyID string) ([]*entity.User, error)
	ListActiveByManager(ctx context.Context, managerID string) ([]*entity.User, error)
	ListActiveBySupervisor(ctx context.Context, supervisorID string) ([]*entity.User, error)
}
