package credential

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/PanelVentas-api/internal/domain"
	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
)

// NowFunc permite inyectar el reloj en tests.
var NowFunc = time.Now

// tokenBytes es la entropía del token en claro (hex de 64 chars).
const tokenBytes = 32

// Ledger emite y consume tokens de credencial de un solo uso (activación y
// reset de contraseña). Solo el hash SHA-256 toca la base de datos; el texto
// en claro existe únicamente en el enlace enviado al usuario.
type Ledger struct {
	tx            TxRunner
	activationTTL time.Duration
	resetTTL      time.Duration
}

// NewLedger construye el ledger con los TTL por propósito.
func NewLedger(tx TxRunner, activationTTL, resetTTL time.Duration) *Ledger {
	return &Ledger{tx: tx, activationTTL: activationTTL, resetTTL: resetTTL}
}

// HashToken calcula el hash hex SHA-256 de un token en claro. Determinista a
// propósito: el consumo busca por hash con un único UPDATE condicional.
func HashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Issue emite un token nuevo para el usuario y propósito dados, invalidando
// en la misma transacción cualquier token vivo anterior del mismo par: nunca
// hay más de un token utilizable a la vez. Devuelve el texto en claro (para
// el enlace del correo) y su expiración.
func (l *Ledger) Issue(ctx context.Context, userID string, purpose entity.TokenPurpose) (plaintext string, expiresAt time.Time, err error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", time.Time{}, fmt.Errorf("generar token: %w", err)
	}
	plaintext = hex.EncodeToString(raw)

	now := NowFunc().UTC()
	expiresAt = now.Add(l.ttlFor(purpose))

	token := &entity.CredentialToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		Purpose:   purpose,
		TokenHash: HashToken(plaintext),
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}

	err = l.tx.Run(ctx, func(_ repository.UserRepository, _ repository.SessionRepository, tokens repository.CredentialTokenRepository) error {
		if err := tokens.SupersedeActive(ctx, userID, purpose, now); err != nil {
			return fmt.Errorf("invalidar tokens previos: %w", err)
		}
		if err := tokens.Create(ctx, token); err != nil {
			return fmt.Errorf("crear token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return plaintext, expiresAt, nil
}

// Consume canjea un token en claro exactamente una vez y ejecuta fn dentro
// de la misma transacción del canje: si fn falla, el token vuelve a quedar
// sin usar (rollback). Token inexistente, expirado o ya usado retornan
// ErrInvalidOrExpiredToken sin distinguir el caso.
func (l *Ledger) Consume(ctx context.Context, purpose entity.TokenPurpose, plaintext string, fn func(token *entity.CredentialToken, users repository.UserRepository, sessions repository.SessionRepository) error) error {
	hash := HashToken(plaintext)
	now := NowFunc().UTC()

	return l.tx.Run(ctx, func(users repository.UserRepository, sessions repository.SessionRepository, tokens repository.CredentialTokenRepository) error {
		token, err := tokens.ConsumeByHash(ctx, hash, purpose, now)
		if err != nil {
			return fmt.Errorf("consumir token: %w", err)
		}
		if token == nil {
			return domain.ErrInvalidOrExpiredToken
		}
		return fn(token, users, sessions)
	})
}

func (l *Ledger) ttlFor(purpose entity.TokenPurpose) time.Duration {
	if purpose == entity.PurposeReset {
		return l.resetTTL
	}
	return l.activationTTL
}
