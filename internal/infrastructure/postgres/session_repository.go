package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación del puerto SessionRepository sobre PostgreSQL.
type SessionRepo struct {
	db Querier
}

func NewSessionRepository(db Querier) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserta la fila de sesión (primera fase del issue: hash vacío).
func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, refresh_token_hash, user_agent, ip_address,
			expires_at, revoked_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.UserID, s.RefreshTokenHash, s.UserAgent, s.IPAddress,
		s.ExpiresAt, s.RevokedAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	query := `
		SELECT id, user_id, refresh_token_hash, user_agent, ip_address,
			expires_at, revoked_at, created_at, updated_at
		FROM sessions WHERE id = $1`
	var s entity.Session
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.RefreshTokenHash, &s.UserAgent, &s.IPAddress,
		&s.ExpiresAt, &s.RevokedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// UpdateRefreshHash rota el hash, extiende la expiración y limpia revoked_at
// (segunda fase del issue y rotación del refresh).
func (r *SessionRepo) UpdateRefreshHash(ctx context.Context, id, hash string, expiresAt, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE sessions
		 SET refresh_token_hash = $2, expires_at = $3, revoked_at = NULL, updated_at = $4
		 WHERE id = $1`, id, hash, expiresAt, at)
	if err != nil {
		return fmt.Errorf("update refresh hash: %w", err)
	}
	return nil
}

// Revoke marca revoked_at. El WHERE condicional la hace idempotente.
func (r *SessionRepo) Revoke(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE sessions SET revoked_at = $2, updated_at = $2
		 WHERE id = $1 AND revoked_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeAllByUser revoca todas las sesiones vivas del usuario.
func (r *SessionRepo) RevokeAllByUser(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE sessions SET revoked_at = $2, updated_at = $2
		 WHERE user_id = $1 AND revoked_at IS NULL`, userID, at)
	if err != nil {
		return fmt.Errorf("revoke sessions by user: %w", err)
	}
	return nil
}
