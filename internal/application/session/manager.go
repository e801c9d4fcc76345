package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/PanelVentas-api/internal/application/credential"
	"github.com/jhoicas/PanelVentas-api/internal/domain"
	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/policy"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
	pkgjwt "github.com/jhoicas/PanelVentas-api/pkg/jwt"
)

// NowFunc permite inyectar el reloj en tests.
var NowFunc = time.Now

// Config son los parámetros de firmado y vigencia de tokens.
type Config struct {
	Secret           string
	Issuer           string
	AccessExpMinutes int
	RefreshExpHours  int
}

// Tokens es el par emitido al cliente.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // expiración del refresh
}

// Manager emite, rota y revoca sesiones de refresh. Cada sesión persiste el
// hash SHA-256 del último refresh emitido: rotar invalida el anterior, y un
// refresh robado deja de servir en cuanto el legítimo rota primero.
type Manager struct {
	sessions  repository.SessionRepository
	users     repository.UserRepository
	companies repository.CompanyRepository
	cfg       Config
}

// NewManager construye el manager de sesiones.
func NewManager(sessions repository.SessionRepository, users repository.UserRepository, companies repository.CompanyRepository, cfg Config) *Manager {
	return &Manager{sessions: sessions, users: users, companies: companies, cfg: cfg}
}

// Issue crea una sesión nueva para el usuario y emite el par de tokens. El
// refresh embebe el id de la sesión, así que la fila se inserta primero con
// hash vacío y se completa tras firmar.
func (m *Manager) Issue(ctx context.Context, user *entity.User, userAgent, ip string) (Tokens, error) {
	now := NowFunc().UTC()
	expiresAt := now.Add(time.Duration(m.cfg.RefreshExpHours) * time.Hour)

	sess := &entity.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ip,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.sessions.Create(ctx, sess); err != nil {
		return Tokens{}, fmt.Errorf("crear sesión: %w", err)
	}

	refresh, err := pkgjwt.GenerateRefresh(m.cfg.Secret, sess.ID, user.ID, m.cfg.Issuer, m.cfg.RefreshExpHours)
	if err != nil {
		return Tokens{}, fmt.Errorf("firmar refresh: %w", err)
	}
	if err := m.sessions.UpdateRefreshHash(ctx, sess.ID, credential.HashToken(refresh), expiresAt, now); err != nil {
		return Tokens{}, fmt.Errorf("guardar hash de refresh: %w", err)
	}

	access, err := m.access(user)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

// Refresh rota la sesión presentada: valida firma, hash almacenado y estado
// del dueño, y emite un par nuevo invalidando el refresh anterior. Todo
// fallo de validación responde ErrUnauthenticated sin detallar la causa.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	sessionID, userID, err := pkgjwt.ParseRefresh(m.cfg.Secret, refreshToken)
	if err != nil {
		return Tokens{}, domain.ErrUnauthenticated
	}

	now := NowFunc().UTC()
	sess, err := m.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return Tokens{}, fmt.Errorf("buscar sesión: %w", err)
	}
	if sess == nil || !sess.IsUsable(now) || sess.UserID != userID {
		return Tokens{}, domain.ErrUnauthenticated
	}
	// Solo el último refresh emitido coincide con el hash persistido.
	if sess.RefreshTokenHash != credential.HashToken(refreshToken) {
		return Tokens{}, domain.ErrUnauthenticated
	}

	user, err := m.usableOwner(ctx, userID)
	if err != nil {
		return Tokens{}, err
	}
	if !policy.DashboardEligible(user.Role) {
		return Tokens{}, domain.ErrForbidden
	}

	expiresAt := now.Add(time.Duration(m.cfg.RefreshExpHours) * time.Hour)
	rotated, err := pkgjwt.GenerateRefresh(m.cfg.Secret, sess.ID, user.ID, m.cfg.Issuer, m.cfg.RefreshExpHours)
	if err != nil {
		return Tokens{}, fmt.Errorf("firmar refresh: %w", err)
	}
	if err := m.sessions.UpdateRefreshHash(ctx, sess.ID, credential.HashToken(rotated), expiresAt, now); err != nil {
		return Tokens{}, fmt.Errorf("rotar refresh: %w", err)
	}

	access, err := m.access(user)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: rotated, ExpiresAt: expiresAt}, nil
}

// Revoke invalida la sesión del refresh presentado. Idempotente: revocar una
// sesión ya revocada o inexistente no es error.
func (m *Manager) Revoke(ctx context.Context, refreshToken string) error {
	sessionID, _, err := pkgjwt.ParseRefresh(m.cfg.Secret, refreshToken)
	if err != nil {
		return domain.ErrUnauthenticated
	}
	if err := m.sessions.Revoke(ctx, sessionID, NowFunc().UTC()); err != nil {
		return fmt.Errorf("revocar sesión: %w", err)
	}
	return nil
}

// RevokeAllForOwner invalida todas las sesiones vivas de un usuario. Se usa
// tras un reset de contraseña o una baja.
func (m *Manager) RevokeAllForOwner(ctx context.Context, userID string) error {
	if err := m.sessions.RevokeAllByUser(ctx, userID, NowFunc().UTC()); err != nil {
		return fmt.Errorf("revocar sesiones del usuario: %w", err)
	}
	return nil
}

// usableOwner re-verifica que el dueño y su empresa siguen vigentes. Un
// refresh válido no sobrevive a la baja del usuario ni de su empresa.
func (m *Manager) usableOwner(ctx context.Context, userID string) (*entity.User, error) {
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil || !user.IsUsable() {
		return nil, domain.ErrUnauthenticated
	}
	if user.CompanyID != nil {
		company, err := m.companies.GetByID(ctx, *user.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("buscar empresa: %w", err)
		}
		if company == nil || !company.IsUsable() {
			return nil, domain.ErrUnauthenticated
		}
	}
	return user, nil
}

func (m *Manager) access(user *entity.User) (string, error) {
	companyID := ""
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}
	access, err := pkgjwt.GenerateAccess(m.cfg.Secret, user.ID, companyID, string(user.Role), m.cfg.Issuer, m.cfg.AccessExpMinutes)
	if err != nil {
		return "", fmt.Errorf("firmar access: %w", err)
	}
	return access, nil
}
