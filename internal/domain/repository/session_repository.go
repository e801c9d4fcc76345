package repository

import (
	"context"
	"time"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
)

// SessionRepository define el puerto de persistencia para Session.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	// UpdateRefreshHash rota el hash del refresh token, extiende la expiración
	// y limpia revoked_at (segunda fase del issue y rotación del refresh).
	UpdateRefreshHash(ctx context.Context, id, hash string, expiresAt, at time.Time) error
	// Revoke marca revoked_at; es idempotente (sesión inexistente o ya
	// revocada no es error).
	Revoke(ctx context.Context, id string, at time.Time) error
	// RevokeAllByUser revoca todas las sesiones vivas del usuario (reset de
	// password, baja de cuenta).
	RevokeAllByUser(ctx context.Context, userID string, at time.Time) error
}
