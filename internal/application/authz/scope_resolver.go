package authz

import (
	"context"
	"fmt"

	"github.com/jhoicas/PanelVentas-api/internal/domain"
	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/policy"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
)

// ScopeResolver decide qué porción de la jerarquía ve cada actor. Para
// listados produce un predicado (repository.Scope) que el repositorio
// intersecta; para operaciones sobre un registro puntual evalúa la misma
// regla y niega explícitamente (ErrForbidden): filtrar es para listados,
// negar es para mutaciones dirigidas.
type ScopeResolver struct {
	dir Directory
}

// NewScopeResolver construye el resolvedor con el directorio de jerarquía.
func NewScopeResolver(dir Directory) *ScopeResolver {
	return &ScopeResolver{dir: dir}
}

// Resolve produce el predicado de alcance del actor para el contexto dado.
func (r *ScopeResolver) Resolve(ctx context.Context, actor Actor, sctx Context) (repository.Scope, error) {
	switch actor.Role {
	case entity.RoleAdmin:
		// Sin restricción; el llamador puede acotar por empresa si lo pide.
		return repository.ScopeAll(), nil

	case entity.RoleDirector:
		if sctx == ContextUsers {
			// El director no lista otros directores ni admins.
			return repository.Scope{
				CompanyID: actor.CompanyID,
				Roles:     []entity.Role{entity.RoleGerente, entity.RoleSupervisor, entity.RoleVendedor},
			}, nil
		}
		return repository.Scope{CompanyID: actor.CompanyID}, nil

	case entity.RoleGerente:
		ids, err := r.teamOfGerente(ctx, actor.ID)
		if err != nil {
			return repository.Scope{}, err
		}
		if len(ids) == 0 {
			return repository.ScopeNothing(), nil
		}
		return repository.Scope{CompanyID: actor.CompanyID, UserIDs: ids}, nil

	case entity.RoleSupervisor:
		ids, err := r.vendedoresOf(ctx, actor.ID)
		if err != nil {
			return repository.Scope{}, err
		}
		if sctx != ContextUsers {
			// Fuera del contexto de usuarios, el supervisor se ve a sí mismo
			// (sus propias conversaciones y clientes) además de su equipo.
			ids = append(ids, actor.ID)
		}
		if len(ids) == 0 {
			return repository.ScopeNothing(), nil
		}
		return repository.Scope{CompanyID: actor.CompanyID, UserIDs: ids}, nil

	default:
		// Vendedor (y cualquier rol desconocido): esta superficie no es suya.
		return repository.ScopeNothing(), nil
	}
}

// CanRead evalúa la regla de alcance registro por registro para lecturas
// puntuales. Devuelve false sin error cuando simplemente no hay visibilidad.
func (r *ScopeResolver) CanRead(ctx context.Context, actor Actor, target *entity.User) (bool, error) {
	if target == nil {
		return false, nil
	}
	if actor.Role != entity.RoleAdmin {
		if target.CompanyID == nil || *target.CompanyID != actor.CompanyID {
			return false, nil
		}
	}

	switch actor.Role {
	case entity.RoleAdmin:
		return true, nil
	case entity.RoleDirector:
		switch target.Role {
		case entity.RoleGerente, entity.RoleSupervisor, entity.RoleVendedor:
			return true, nil
		}
		return false, nil
	case entity.RoleGerente:
		return r.inTeamOfGerente(ctx, actor.ID, target)
	case entity.RoleSupervisor:
		return target.Role == entity.RoleVendedor &&
			target.SupervisorID != nil && *target.SupervisorID == actor.ID, nil
	default:
		return false, nil
	}
}

// AssertManageScope niega con ErrForbidden toda mutación dirigida fuera del
// alcance del actor: rol sin autoridad, empresa distinta o registro fuera de
// su rama de la jerarquía.
func (r *ScopeResolver) AssertManageScope(ctx context.Context, actor Actor, target *entity.User) error {
	if target == nil {
		return domain.ErrNotFound
	}
	if !policy.CanManage(actor.Role, target.Role) {
		return domain.ErrForbidden
	}
	if actor.Role != entity.RoleAdmin {
		if target.CompanyID == nil || *target.CompanyID != actor.CompanyID {
			return domain.ErrForbidden
		}
	}

	switch actor.Role {
	case entity.RoleAdmin, entity.RoleDirector:
		// El policy.CanManage de arriba ya acotó los roles alcanzables.
		return nil
	case entity.RoleGerente:
		ok, err := r.inTeamOfGerente(ctx, actor.ID, target)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrForbidden
		}
		return nil
	case entity.RoleSupervisor:
		if target.Role == entity.RoleVendedor &&
			target.SupervisorID != nil && *target.SupervisorID == actor.ID {
			return nil
		}
		return domain.ErrForbidden
	default:
		return domain.ErrForbidden
	}
}

// inTeamOfGerente: el target es un supervisor del gerente, o un vendedor
// cuyo supervisor pertenece al gerente. Lookup de puntero a padre, sin SQL.
func (r *ScopeResolver) inTeamOfGerente(ctx context.Context, gerenteID string, target *entity.User) (bool, error) {
	switch target.Role {
	case entity.RoleSupervisor:
		return target.ManagerID != nil && *target.ManagerID == gerenteID, nil
	case entity.RoleVendedor:
		if target.SupervisorID == nil {
			return false, nil
		}
		sup, err := r.dir.GetByID(ctx, *target.SupervisorID)
		if err != nil {
			return false, fmt.Errorf("lookup supervisor %s: %w", *target.SupervisorID, err)
		}
		if sup == nil || !sup.IsUsable() {
			return false, nil
		}
		return sup.ManagerID != nil && *sup.ManagerID == gerenteID, nil
	default:
		return false, nil
	}
}

// teamOfGerente materializa los ids visibles para el gerente: sus
// supervisores y los vendedores de cada uno.
func (r *ScopeResolver) teamOfGerente(ctx context.Context, gerenteID string) ([]string, error) {
	sups, err := r.dir.ListActiveByManager(ctx, gerenteID)
	if err != nil {
		return nil, fmt.Errorf("listar supervisores del gerente %s: %w", gerenteID, err)
	}
	var ids []string
	for _, s := range sups {
		ids = append(ids, s.ID)
		vends, err := r.dir.ListActiveBySupervisor(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("listar vendedores del supervisor %s: %w", s.ID, err)
		}
		for _, v := range vends {
			ids = append(ids, v.ID)
		}
	}
	return ids, nil
}

func (r *ScopeResolver) vendedoresOf(ctx context.Context, supervisorID string) ([]string, error) {
	vends, err := r.dir.ListActiveBySupervisor(ctx, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("listar vendedores del supervisor %s: %w", supervisorID, err)
	}
	var ids []string
	for _, v := range vends {
		ids = append(ids, v.ID)
	}
	return ids, nil
}
