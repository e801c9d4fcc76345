package repository

import (
	"context"
	"time"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
)

// CredentialTokenRepository define el puerto de persistencia para los tokens
// de un solo uso (invitaciones de activación y reset de password).
type CredentialTokenRepository interface {
	Create(ctx context.Context, token *entity.CredentialToken) error

	// SupersedeActive marca como usados todos los tokens vivos (sin usar y
	// sin vencer en el instante at) del owner para ese propósito. Se invoca
	// en la misma transacción que crea el token que los reemplaza.
	SupersedeActive(ctx context.Context, userID string, purpose entity.TokenPurpose, at time.Time) error

	// ConsumeByHash ejecuta el update condicional "marcar usado donde sigue
	// sin usar y sin vencer" y retorna el token consumido, o (nil, nil) si no
	// había token vivo con ese hash. El conteo de filas afectadas es la
	// garantía de exactamente-una-vez bajo concurrencia.
	ConsumeByHash(ctx context.Context, tokenHash string, purpose entity.TokenPurpose, at time.Time) (*entity.CredentialToken, error)
}
