package entity

import "time"

// Session es un contexto de login activo. El refresh token en claro nunca se
// persiste: solo su hash. Rotar el refresh reemplaza el hash y extiende
// ExpiresAt, invalidando el valor anterior.
type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash string
	UserAgent        string
	IPAddress        string
	ExpiresAt        time.Time
	RevokedAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsUsable indica si la sesión sigue viva en el instante now.
// La expiración es una condición de lectura, no una transición almacenada.
func (s *Session) IsUsable(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
