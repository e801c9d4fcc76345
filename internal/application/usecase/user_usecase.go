package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/PanelVentas-api/internal/application/auth"
	"github.com/jhoicas/PanelVentas-api/internal/application/authz"
	"github.com/jhoicas/PanelVentas-api/internal/application/dto"
	"github.com/jhoicas/PanelVentas-api/internal/application/session"
	"github.com/jhoicas/PanelVentas-api/internal/domain"
	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/policy"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
	"github.com/jhoicas/PanelVentas-api/pkg/logger"
)

// NowFunc permite inyectar el reloj en tests.
var NowFunc = time.Now

// UserUseCase es el CRUD de identidades sobre el núcleo de autorización:
// RolePolicy decide qué roles puede crear el actor, HierarchyAssigner
// resuelve los enlaces y ScopeResolver acota lecturas y mutaciones.
type UserUseCase struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	scopes    *authz.ScopeResolver
	assigner  *authz.HierarchyAssigner
	auth      *auth.UseCase
	sessions  *session.Manager
	log       *logger.Logger
}

func NewUserUseCase(users repository.UserRepository, companies repository.CompanyRepository, scopes *authz.ScopeResolver, assigner *authz.HierarchyAssigner, authUC *auth.UseCase, sessions *session.Manager, log *logger.Logger) *UserUseCase {
	return &UserUseCase{
		users:     users,
		companies: companies,
		scopes:    scopes,
		assigner:  assigner,
		auth:      authUC,
		sessions:  sessions,
		log:       log.Component("users"),
	}
}

// Create da de alta una identidad. Los roles invitables quedan pendientes de
// activación y reciben el correo de invitación; el vendedor se crea sin
// credenciales.
func (uc *UserUseCase) Create(ctx context.Context, actor authz.Actor, req dto.CreateUserRequest) (dto.UserResponse, error) {
	role := entity.Role(req.Role)
	if !policy.Valid(role) {
		return dto.UserResponse{}, fmt.Errorf("%w: rol desconocido %q", domain.ErrValidation, req.Role)
	}
	if !policy.CanCreate(actor.Role, role) {
		return dto.UserResponse{}, domain.ErrForbidden
	}
	if req.Name == "" {
		return dto.UserResponse{}, fmt.Errorf("%w: el nombre es requerido", domain.ErrValidation)
	}

	companyID, err := uc.resolveCompany(ctx, actor, role, req.CompanyID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	email, err := uc.normalizeEmailFor(role, req.Email)
	if err != nil {
		return dto.UserResponse{}, err
	}

	var links authz.Links
	if companyID != nil {
		links, err = uc.assigner.Resolve(ctx, actor, role, *companyID, req.ManagerID, req.SupervisorID, nil)
		if err != nil {
			return dto.UserResponse{}, err
		}
	} else if req.ManagerID != nil || req.SupervisorID != nil {
		return dto.UserResponse{}, fmt.Errorf("%w: el rol %s no admite enlaces de jerarquía", domain.ErrValidation, role)
	}

	now := NowFunc().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Role:         role,
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		ManagerID:    links.ManagerID,
		SupervisorID: links.SupervisorID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return dto.UserResponse{}, err
	}

	// La invitación viaja fuera de la transacción de alta: si falla, el
	// usuario existe y la invitación se reenvía con /resend-invite.
	if policy.IsInvitable(role) && email != nil {
		if err := uc.auth.IssueInvite(ctx, user); err != nil {
			uc.log.Error().Err(err).Str("user_id", user.ID).Msg("no se pudo emitir la invitación inicial")
		}
	}

	uc.log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("usuario creado")
	return dto.ToUserResponse(user), nil
}

// Update modifica una identidad dentro del alcance de gestión del actor.
// Hints de jerarquía omitidos conservan los enlaces actuales.
func (uc *UserUseCase) Update(ctx context.Context, actor authz.Actor, id string, req dto.UpdateUserRequest) (dto.UserResponse, error) {
	target, err := uc.usableTarget(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if err := uc.scopes.AssertManageScope(ctx, actor, target); err != nil {
		return dto.UserResponse{}, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return dto.UserResponse{}, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrValidation)
		}
		target.Name = *req.Name
	}
	if req.Email != nil {
		email, err := uc.normalizeEmailFor(target.Role, req.Email)
		if err != nil {
			return dto.UserResponse{}, err
		}
		target.Email = email
	}
	if req.Phone != nil {
		target.Phone = req.Phone
	}
	if req.Active != nil {
		target.Active = *req.Active
	}

	if target.CompanyID != nil {
		links, err := uc.assigner.Resolve(ctx, actor, target.Role, *target.CompanyID, req.ManagerID, req.SupervisorID, target)
		if err != nil {
			return dto.UserResponse{}, err
		}
		target.ManagerID = links.ManagerID
		target.SupervisorID = links.SupervisorID
	} else if req.ManagerID != nil || req.SupervisorID != nil {
		return dto.UserResponse{}, fmt.Errorf("%w: el rol %s no admite enlaces de jerarquía", domain.ErrValidation, target.Role)
	}

	target.UpdatedAt = NowFunc().UTC()
	if err := uc.users.Update(ctx, target); err != nil {
		return dto.UserResponse{}, err
	}

	// Desactivar corta el acceso de inmediato, no recién al expirar el access.
	if req.Active != nil && !*req.Active {
		if err := uc.sessions.RevokeAllForOwner(ctx, target.ID); err != nil {
			return dto.UserResponse{}, err
		}
	}
	return dto.ToUserResponse(target), nil
}

// Get devuelve una identidad visible para el actor. Fuera de alcance responde
// NotFound: una lectura no revela la existencia de registros ajenos.
func (uc *UserUseCase) Get(ctx context.Context, actor authz.Actor, id string) (dto.UserResponse, error) {
	target, err := uc.usableTarget(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}
	ok, err := uc.scopes.CanRead(ctx, actor, target)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if !ok {
		return dto.UserResponse{}, domain.ErrNotFound
	}
	return dto.ToUserResponse(target), nil
}

// List devuelve las identidades dentro del alcance del actor. El admin puede
// acotar por empresa con companyFilter; para el resto el filtro solo es
// válido si coincide con la propia.
func (uc *UserUseCase) List(ctx context.Context, actor authz.Actor, companyFilter string, limit, offset int) ([]dto.UserResponse, error) {
	scope, err := uc.scopes.Resolve(ctx, actor, authz.ContextUsers)
	if err != nil {
		return nil, err
	}
	if companyFilter != "" {
		if actor.Role == entity.RoleAdmin {
			scope = repository.Scope{CompanyID: companyFilter}
		} else if companyFilter != actor.CompanyID {
			return nil, domain.ErrForbidden
		}
	}
	users, err := uc.users.List(ctx, scope, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	return dto.ToUserResponses(users), nil
}

// Delete da de baja lógica una identidad y revoca sus sesiones vivas. Los
// tokens de credencial pendientes mueren en el siguiente canje (el consumo
// re-verifica al dueño).
func (uc *UserUseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	target, err := uc.usableTarget(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.scopes.AssertManageScope(ctx, actor, target); err != nil {
		return err
	}
	if actor.ID == target.ID {
		return fmt.Errorf("%w: no puedes darte de baja a ti mismo", domain.ErrValidation)
	}

	now := NowFunc().UTC()
	if err := uc.users.SoftDelete(ctx, target.ID, now); err != nil {
		return fmt.Errorf("dar de baja usuario: %w", err)
	}
	if err := uc.sessions.RevokeAllForOwner(ctx, target.ID); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", target.ID).Msg("usuario dado de baja")
	return nil
}

func (uc *UserUseCase) usableTarget(ctx context.Context, id string) (*entity.User, error) {
	target, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if target == nil || target.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	return target, nil
}

// resolveCompany determina la empresa del nuevo usuario. El admin de
// plataforma no pertenece a ninguna; el resto hereda la del actor, y solo el
// admin puede elegirla explícitamente.
func (uc *UserUseCase) resolveCompany(ctx context.Context, actor authz.Actor, role entity.Role, hint *string) (*string, error) {
	if role == entity.RoleAdmin {
		if hint != nil {
			return nil, fmt.Errorf("%w: el admin de plataforma no pertenece a una empresa", domain.ErrValidation)
		}
		return nil, nil
	}

	var companyID string
	switch {
	case actor.Role == entity.RoleAdmin:
		if hint == nil {
			return nil, fmt.Errorf("%w: company_id es requerido", domain.ErrValidation)
		}
		companyID = *hint
	case hint != nil && *hint != actor.CompanyID:
		return nil, domain.ErrForbidden
	default:
		companyID = actor.CompanyID
	}

	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("buscar empresa: %w", err)
	}
	if company == nil || !company.IsUsable() {
		return nil, fmt.Errorf("%w: la empresa no existe o está inactiva", domain.ErrValidation)
	}
	return &companyID, nil
}

// normalizeEmailFor exige email para todo rol con acceso al panel; para el
// vendedor es opcional.
func (uc *UserUseCase) normalizeEmailFor(role entity.Role, email *string) (*string, error) {
	if email == nil || *email == "" {
		if role == entity.RoleVendedor {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: el email es requerido para el rol %s", domain.ErrValidation, role)
	}
	normalized := auth.NormalizeEmail(*email)
	return &normalized, nil
}
