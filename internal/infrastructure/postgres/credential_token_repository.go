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

var _ repository.CredentialTokenRepository = (*CredentialTokenRepo)(nil)

// CredentialTokenRepo implementación del puerto CredentialTokenRepository
// sobre PostgreSQL.
type CredentialTokenRepo struct {
	db Querier
}

func NewCredentialTokenRepository(db Querier) *CredentialTokenRepo {
	return &CredentialTokenRepo{db: db}
}

func (r *CredentialTokenRepo) Create(ctx context.Context, t *entity.CredentialToken) error {
	query := `
		INSERT INTO credential_tokens (id, user_id, purpose, token_hash, expires_at, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		t.ID, t.UserID, t.Purpose, t.TokenHash, t.ExpiresAt, t.UsedAt, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert credential token: %w", err)
	}
	return nil
}

// SupersedeActive marca como usados los tokens vivos del owner+propósito.
// Corre en la misma transacción que inserta el reemplazo.
func (r *CredentialTokenRepo) SupersedeActive(ctx context.Context, userID string, purpose entity.TokenPurpose, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE credential_tokens SET used_at = $3
		 WHERE user_id = $1 AND purpose = $2 AND used_at IS NULL AND expires_at > $3`,
		userID, purpose, at)
	if err != nil {
		return fmt.Errorf("supersede tokens: %w", err)
	}
	return nil
}

// ConsumeByHash es el update condicional que garantiza exactamente-una-vez:
// solo la consulta que efectivamente flipea used_at recibe la fila de
// vuelta; cualquier carrera concurrente ve cero filas.
func (r *CredentialTokenRepo) ConsumeByHash(ctx context.Context, tokenHash string, purpose entity.TokenPurpose, at time.Time) (*entity.CredentialToken, error) {
	query := `
		UPDATE credential_tokens SET used_at = $3
		WHERE token_hash = $1 AND purpose = $2 AND used_at IS NULL AND expires_at > $3
		RETURNING id, user_id, purpose, token_hash, expires_at, used_at, created_at`
	var t entity.CredentialToken
	err := r.db.QueryRow(ctx, query, tokenHash, purpose, at).Scan(
		&t.ID, &t.UserID, &t.Purpose, &t.TokenHash, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("consume token: %w", err)
	}
	return &t, nil
}
