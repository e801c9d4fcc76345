package entity

import "time"

// TokenPurpose distingue los dos usos del libro de tokens de credencial.
type TokenPurpose string

const (
	PurposeActivation TokenPurpose = "activation" // invitación de cuenta
	PurposeReset      TokenPurpose = "reset"      // recuperación de password
)

// CredentialToken es un token de un solo uso, con vencimiento, del que solo
// se persiste el hash SHA-256. Invariante: a lo sumo un token sin usar y sin
// vencer por (owner, purpose); emitir uno nuevo marca usados los anteriores.
// La transición sin-usar → usado ocurre exactamente una vez, de forma atómica,
// como parte de la transacción que consume el token.
type CredentialToken struct {
	ID        string
	UserID    string
	Purpose   TokenPurpose
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// IsLive indica si el token sigue consumible en el instante now.
func (t *CredentialToken) IsLive(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
