package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/PanelVentas-api/internal/application/authz"
	"github.com/jhoicas/PanelVentas-api/internal/application/credential"
	"github.com/jhoicas/PanelVentas-api/internal/application/session"
	"github.com/jhoicas/PanelVentas-api/internal/domain"
	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/policy"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
	"github.com/jhoicas/PanelVentas-api/pkg/logger"
)

// NowFunc permite inyectar el reloj en tests.
var NowFunc = time.Now

// MinPasswordLen es el largo mínimo aceptado al definir una contraseña.
const MinPasswordLen = 8

// UseCase orquesta login, activación de cuenta, reset de contraseña y
// reenvío de invitaciones sobre el ledger de tokens y el manager de
// sesiones.
type UseCase struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	ledger    *credential.Ledger
	sessions  *session.Manager
	scopes    *authz.ScopeResolver
	notifier  Notifier
	log       *logger.Logger
}

// NewUseCase construye el orquestador de autenticación.
func NewUseCase(users repository.UserRepository, companies repository.CompanyRepository, ledger *credential.Ledger, sessions *session.Manager, scopes *authz.ScopeResolver, notifier Notifier, log *logger.Logger) *UseCase {
	return &UseCase{
		users:     users,
		companies: companies,
		ledger:    ledger,
		sessions:  sessions,
		scopes:    scopes,
		notifier:  notifier,
		log:       log.Component("auth"),
	}
}

// Login autentica email+contraseña y emite la sesión. Email desconocido y
// contraseña incorrecta responden el mismo ErrUnauthenticated; una cuenta
// invitada que aún no define contraseña responde ErrPendingActivation para
// que el frontend ofrezca reenviar la invitación.
func (uc *UseCase) Login(ctx context.Context, email, password, userAgent, ip string) (session.Tokens, error) {
	user, err := uc.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return session.Tokens{}, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil || !user.IsUsable() {
		return session.Tokens{}, domain.ErrUnauthenticated
	}
	if user.PasswordHash == nil || *user.PasswordHash == "" {
		if policy.IsInvitable(user.Role) {
			return session.Tokens{}, domain.ErrPendingActivation
		}
		return session.Tokens{}, domain.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return session.Tokens{}, domain.ErrUnauthenticated
	}
	if !policy.DashboardEligible(user.Role) {
		return session.Tokens{}, domain.ErrForbidden
	}
	if err := uc.assertCompanyUsable(ctx, user); err != nil {
		return session.Tokens{}, err
	}

	tokens, err := uc.sessions.Issue(ctx, user, userAgent, ip)
	if err != nil {
		return session.Tokens{}, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("login exitoso")
	return tokens, nil
}

// Activate canjea el token de activación, fija la primera contraseña y deja
// la sesión iniciada. El canje y el set de contraseña comparten transacción:
// si algo falla el token sigue canjeable.
func (uc *UseCase) Activate(ctx context.Context, token, password, userAgent, ip string) (session.Tokens, error) {
	if err := validatePassword(password); err != nil {
		return session.Tokens{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return session.Tokens{}, fmt.Errorf("hashear contraseña: %w", err)
	}

	var activated *entity.User
	err = uc.ledger.Consume(ctx, entity.PurposeActivation, token, func(ct *entity.CredentialToken, users repository.UserRepository, _ repository.SessionRepository) error {
		user, err := users.GetByID(ctx, ct.UserID)
		if err != nil {
			return fmt.Errorf("buscar usuario: %w", err)
		}
		// Una cuenta dada de baja después de invitada no se activa, y una
		// que ya definió contraseña no se re-activa; el mensaje no
		// distingue estos casos del token vencido.
		if user == nil || !user.IsUsable() || !policy.IsInvitable(user.Role) {
			return domain.ErrInvalidOrExpiredToken
		}
		if user.PasswordHash != nil && *user.PasswordHash != "" {
			return domain.ErrInvalidOrExpiredToken
		}
		// Empresa dada de baja después de la invitación: el token muere con
		// ella. El rollback deja el token sin canjear, igual que arriba.
		if err := uc.companyGuard(ctx, user); err != nil {
			return err
		}
		if err := users.UpdatePasswordHash(ctx, user.ID, string(hash), NowFunc().UTC()); err != nil {
			return fmt.Errorf("fijar contraseña: %w", err)
		}
		activated = user
		return nil
	})
	if err != nil {
		return session.Tokens{}, err
	}

	uc.log.Info().Str("user_id", activated.ID).Msg("cuenta activada")
	return uc.sessions.Issue(ctx, activated, userAgent, ip)
}

// ForgotPassword emite un token de reset si el email corresponde a una
// cuenta vigente con contraseña definida. Siempre responde OK: la existencia
// del email no se revela.
func (uc *UseCase) ForgotPassword(ctx context.Context, email string) error {
	user, err := uc.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil || !user.IsUsable() || user.PasswordHash == nil || *user.PasswordHash == "" {
		return nil
	}
	// La empresa muerta también calla: la respuesta nunca varía por estado.
	if err := uc.assertCompanyUsable(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return nil
		}
		return err
	}

	plaintext, _, err := uc.ledger.Issue(ctx, user.ID, entity.PurposeReset)
	if err != nil {
		return fmt.Errorf("emitir token de reset: %w", err)
	}
	uc.notify(ctx, user, entity.PurposeReset, plaintext)
	return nil
}

// ResetPassword canjea el token de reset, reemplaza la contraseña y revoca
// todas las sesiones vivas del usuario en la misma transacción.
func (uc *UseCase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashear contraseña: %w", err)
	}

	return uc.ledger.Consume(ctx, entity.PurposeReset, token, func(ct *entity.CredentialToken, users repository.UserRepository, sessions repository.SessionRepository) error {
		user, err := users.GetByID(ctx, ct.UserID)
		if err != nil {
			return fmt.Errorf("buscar usuario: %w", err)
		}
		if user == nil || !user.IsUsable() {
			return domain.ErrInvalidOrExpiredToken
		}
		if err := uc.companyGuard(ctx, user); err != nil {
			return err
		}
		now := NowFunc().UTC()
		if err := users.UpdatePasswordHash(ctx, user.ID, string(hash), now); err != nil {
			return fmt.Errorf("fijar contraseña: %w", err)
		}
		// Un reset asume credencial comprometida: muere toda sesión viva.
		if err := sessions.RevokeAllByUser(ctx, user.ID, now); err != nil {
			return fmt.Errorf("revocar sesiones: %w", err)
		}
		uc.log.Info().Str("user_id", user.ID).Msg("contraseña restablecida")
		return nil
	})
}

// ResendInvite reemite la invitación de activación de un usuario pendiente.
// Solo procede dentro del alcance de gestión del actor y mientras la cuenta
// no tenga contraseña definida.
func (uc *UseCase) ResendInvite(ctx context.Context, actor authz.Actor, userID string) error {
	target, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("buscar usuario: %w", err)
	}
	if target == nil || target.IsDeleted() {
		return domain.ErrNotFound
	}
	if err := uc.scopes.AssertManageScope(ctx, actor, target); err != nil {
		return err
	}
	if !policy.IsInvitable(target.Role) {
		return fmt.Errorf("%w: el rol %s no se activa por invitación", domain.ErrConflict, target.Role)
	}
	if target.PasswordHash != nil && *target.PasswordHash != "" {
		return fmt.Errorf("%w: la cuenta ya tiene contraseña definida", domain.ErrConflict)
	}
	if target.Email == nil || *target.Email == "" {
		return fmt.Errorf("%w: la cuenta no tiene email", domain.ErrConflict)
	}

	plaintext, _, err := uc.ledger.Issue(ctx, target.ID, entity.PurposeActivation)
	if err != nil {
		return fmt.Errorf("emitir token de activación: %w", err)
	}
	uc.notify(ctx, target, entity.PurposeActivation, plaintext)
	return nil
}

// IssueInvite emite el token de activación de un usuario recién creado y
// dispara el correo. Lo llama el usecase de usuarios tras persistir.
func (uc *UseCase) IssueInvite(ctx context.Context, user *entity.User) error {
	plaintext, _, err := uc.ledger.Issue(ctx, user.ID, entity.PurposeActivation)
	if err != nil {
		return fmt.Errorf("emitir token de activación: %w", err)
	}
	uc.notify(ctx, user, entity.PurposeActivation, plaintext)
	return nil
}

// notify envía el correo correspondiente fuera de toda transacción. El error
// solo se loguea: el token ya está emitido y puede reenviarse.
func (uc *UseCase) notify(ctx context.Context, user *entity.User, purpose entity.TokenPurpose, plaintext string) {
	if user.Email == nil {
		return
	}
	var err error
	if purpose == entity.PurposeReset {
		err = uc.notifier.SendPasswordReset(ctx, *user.Email, user.Name, plaintext)
	} else {
		err = uc.notifier.SendActivationInvite(ctx, *user.Email, user.Name, plaintext)
	}
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Str("purpose", string(purpose)).Msg("fallo el envío del correo de credenciales")
	}
}

// companyGuard es assertCompanyUsable para los canjes de token: una empresa
// muerta se reporta igual que un token vencido, sin revelar la causa.
func (uc *UseCase) companyGuard(ctx context.Context, user *entity.User) error {
	if err := uc.assertCompanyUsable(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return domain.ErrInvalidOrExpiredToken
		}
		return err
	}
	return nil
}

func (uc *UseCase) assertCompanyUsable(ctx context.Context, user *entity.User) error {
	if user.CompanyID == nil {
		return nil
	}
	company, err := uc.companies.GetByID(ctx, *user.CompanyID)
	if err != nil {
		return fmt.Errorf("buscar empresa: %w", err)
	}
	if company == nil || !company.IsUsable() {
		return domain.ErrUnauthenticated
	}
	return nil
}

// NormalizeEmail canonicaliza el email para búsqueda y almacenamiento.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrValidation, MinPasswordLen)
	}
	return nil
}
