// Package testutil provee implementaciones en memoria de los repositorios de
// dominio para tests de la capa de aplicación. No se usa en producción.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
)

// ─────────────────────────────────────────────────────────────────────────────
// Usuarios
// ─────────────────────────────────────────────────────────────────────────────

// UserRepo es un repository.UserRepository en memoria.
type UserRepo struct {
	mu    sync.Mutex
	Users map[string]*entity.User
}

func NewUserRepo(users ...*entity.User) *UserRepo {
	r := &UserRepo{Users: make(map[string]*entity.User)}
	for _, u := range users {
		cp := *u
		r.Users[u.ID] = &cp
	}
	return r
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.Users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Users {
		if u.Email != nil && *u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.Users[u.ID] = &cp
	return nil
}

func (r *UserRepo) UpdatePasswordHash(_ context.Context, id, hash string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.Users[id]; ok {
		u.PasswordHash = &hash
		u.UpdatedAt = at
	}
	return nil
}

func (r *UserRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.Users[id]; ok {
		u.DeletedAt = &at
		u.Active = false
		u.UpdatedAt = at
	}
	return nil
}

func (r *UserRepo) List(_ context.Context, scope repository.Scope, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.Users {
		if u.IsDeleted() || !matchesScope(u, scope) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), nil
}

func (r *UserRepo) ListActive(_ context.Context, role entity.Role, companyID string) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.Users {
		if u.IsUsable() && u.Role == role && u.CompanyID != nil && *u.CompanyID == companyID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *UserRepo) ListActiveByManager(_ context.Context, managerID string) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.Users {
		if u.IsUsable() && u.Role == entity.RoleSupervisor && u.ManagerID != nil && *u.ManagerID == managerID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *UserRepo) ListActiveBySupervisor(_ context.Context, supervisorID string) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.Users {
		if u.IsUsable() && u.Role == entity.RoleVendedor && u.SupervisorID != nil && *u.SupervisorID == supervisorID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func matchesScope(u *entity.User, scope repository.Scope) bool {
	if scope.Nothing {
		return false
	}
	if scope.All {
		return true
	}
	if scope.CompanyID != "" && (u.CompanyID == nil || *u.CompanyID != scope.CompanyID) {
		return false
	}
	if len(scope.Roles) > 0 {
		found := false
		for _, role := range scope.Roles {
			if u.Role == role {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(scope.UserIDs) > 0 {
		found := false
		for _, id := range scope.UserIDs {
			if u.ID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ─────────────────────────────────────────────────────────────────────────────
// Sesiones
// ─────────────────────────────────────────────────────────────────────────────

// SessionRepo es un repository.SessionRepository en memoria.
type SessionRepo struct {
	mu       sync.Mutex
	Sessions map[string]*entity.Session
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{Sessions: make(map[string]*entity.Session)}
}

func (r *SessionRepo) Create(_ context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.Sessions[s.ID] = &cp
	return nil
}

func (r *SessionRepo) GetByID(_ context.Context, id string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.Sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *SessionRepo) UpdateRefreshHash(_ context.Context, id, hash string, expiresAt, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.Sessions[id]; ok {
		s.RefreshTokenHash = hash
		s.ExpiresAt = expiresAt
		s.RevokedAt = nil
		s.UpdatedAt = at
	}
	return nil
}

func (r *SessionRepo) Revoke(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.Sessions[id]; ok && s.RevokedAt == nil {
		rev := at
		s.RevokedAt = &rev
		s.UpdatedAt = at
	}
	return nil
}

func (r *SessionRepo) RevokeAllByUser(_ context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			rev := at
			s.RevokedAt = &rev
			s.UpdatedAt = at
		}
	}
	return nil
}

// LiveCount cuenta las sesiones utilizables de un usuario en el instante dado.
func (r *SessionRepo) LiveCount(userID string, at time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.Sessions {
		if s.UserID == userID && s.IsUsable(at) {
			n++
		}
	}
	return n
}

// ─────────────────────────────────────────────────────────────────────────────
// Empresas
// ─────────────────────────────────────────────────────────────────────────────

// CompanyRepo es un repository.CompanyRepository en memoria.
type CompanyRepo struct {
	mu        sync.Mutex
	Companies map[string]*entity.Company
}

func NewCompanyRepo(companies ...*entity.Company) *CompanyRepo {
	r := &CompanyRepo{Companies: make(map[string]*entity.Company)}
	for _, c := range companies {
		cp := *c
		r.Companies[c.ID] = &cp
	}
	return r
}

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.Companies[c.ID] = &cp
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.Companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Company
	for _, c := range r.Companies {
		if c.DeletedAt == nil {
			cp := *c
			out = append(out, &cp)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.Companies[c.ID] = &cp
	return nil
}

func (r *CompanyRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.Companies[id]; ok {
		c.DeletedAt = &at
		c.Active = false
		c.UpdatedAt = at
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Tokens de credencial
// ─────────────────────────────────────────────────────────────────────────────

// TokenRepo es un repository.CredentialTokenRepository en memoria.
type TokenRepo struct {
	mu     sync.Mutex
	Tokens map[string]*entity.CredentialToken
}

func NewTokenRepo() *TokenRepo {
	return &TokenRepo{Tokens: make(map[string]*entity.CredentialToken)}
}

func (r *TokenRepo) Create(_ context.Context, t *entity.CredentialToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.Tokens[t.ID] = &cp
	return nil
}

func (r *TokenRepo) SupersedeActive(_ context.Context, userID string, purpose entity.TokenPurpose, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.Tokens {
		if t.UserID == userID && t.Purpose == purpose && t.IsLive(at) {
			used := at
			t.UsedAt = &used
		}
	}
	return nil
}

func (r *TokenRepo) ConsumeByHash(_ context.Context, tokenHash string, purpose entity.TokenPurpose, at time.Time) (*entity.CredentialToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.Tokens {
		if t.TokenHash == tokenHash && t.Purpose == purpose && t.IsLive(at) {
			used := at
			t.UsedAt = &used
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// TxRunner
// ─────────────────────────────────────────────────────────────────────────────

// TxRunner serializa "transacciones" sobre los repos en memoria. No emula
// rollback de usuarios/sesiones, solo de tokens (suficiente para los tests
// del ledger de esta capa; el rollback real lo cubre postgres).
type TxRunner struct {
	mu       sync.Mutex
	Users    *UserRepo
	Sessions *SessionRepo
	Tokens   *TokenRepo
}

func NewTxRunner(users *UserRepo, sessions *SessionRepo, tokens *TokenRepo) *TxRunner {
	return &TxRunner{Users: users, Sessions: sessions, Tokens: tokens}
}

func (r *TxRunner) Run(_ context.Context, fn func(users repository.UserRepository, sessions repository.SessionRepository, tokens repository.CredentialTokenRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]*entity.CredentialToken, len(r.Tokens.Tokens))
	for id, t := range r.Tokens.Tokens {
		cp := *t
		snapshot[id] = &cp
	}

	if err := fn(r.Users, r.Sessions, r.Tokens); err != nil {
		r.Tokens.Tokens = snapshot
		return err
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Notificador
// ─────────────────────────────────────────────────────────────────────────────

// Notifier captura los envíos para aserciones.
type Notifier struct {
	mu          sync.Mutex
	Invitations []NotifierCall
	Resets      []NotifierCall
	Err         error // si se setea, todos los envíos fallan
}

type NotifierCall struct {
	Email string
	Name  string
	Token string
}

func (n *Notifier) SendActivationInvite(_ context.Context, email, name, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Invitations = append(n.Invitations, NotifierCall{Email: email, Name: name, Token: token})
	return nil
}

func (n *Notifier) SendPasswordReset(_ context.Context, email, name, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Resets = append(n.Resets, NotifierCall{Email: email, Name: name, Token: token})
	return nil
}
