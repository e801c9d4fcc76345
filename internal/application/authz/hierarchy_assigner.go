package authz

import (
	"context"
	"fmt"

	"github.com/jhoicas/PanelVentas-api/internal/domain"
	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
)

// Links es el par de enlaces jerárquicos ya resuelto para persistir en el
// usuario: gerente asignado y supervisor asignado. Nil = sin enlace.
type Links struct {
	ManagerID    *string
	SupervisorID *string
}

// HierarchyAssigner resuelve manager_id/supervisor_id al crear o actualizar
// un usuario, combinando el rol del target, el rol del actor y los hints del
// request. Los hints son punteros: nil significa "no enviado", que en update
// conserva el enlace existente.
type HierarchyAssigner struct {
	dir Directory
}

// NewHierarchyAssigner construye el asignador con el directorio de jerarquía.
func NewHierarchyAssigner(dir Directory) *HierarchyAssigner {
	return &HierarchyAssigner{dir: dir}
}

// Resolve calcula los enlaces del target. existing es nil en creación; en
// update aporta los enlaces actuales para hints omitidos. companyID es la
// empresa del target (para el actor no-admin coincide con la suya).
//
// Reglas por rol del target:
//   - admin/director/gerente: sin enlaces; cualquier hint es inválido.
//   - supervisor: requiere gerente; si el actor es gerente se fuerza a él.
//   - vendedor: requiere supervisor; si el actor es supervisor se fuerza a
//     él; un gerente solo puede colgar vendedores de sus propios supervisores.
func (a *HierarchyAssigner) Resolve(ctx context.Context, actor Actor, targetRole entity.Role, companyID string, managerHint, supervisorHint *string, existing *entity.User) (Links, error) {
	switch targetRole {
	case entity.RoleAdmin, entity.RoleDirector, entity.RoleGerente:
		if managerHint != nil || supervisorHint != nil {
			return Links{}, fmt.Errorf("%w: el rol %s no admite enlaces de jerarquía", domain.ErrValidation, targetRole)
		}
		return Links{}, nil

	case entity.RoleSupervisor:
		return a.resolveSupervisor(ctx, actor, companyID, managerHint, supervisorHint, existing)

	case entity.RoleVendedor:
		return a.resolveVendedor(ctx, actor, companyID, managerHint, supervisorHint, existing)

	default:
		return Links{}, fmt.Errorf("%w: rol desconocido %q", domain.ErrValidation, targetRole)
	}
}

func (a *HierarchyAssigner) resolveSupervisor(ctx context.Context, actor Actor, companyID string, managerHint, supervisorHint *string, existing *entity.User) (Links, error) {
	if supervisorHint != nil {
		return Links{}, fmt.Errorf("%w: un supervisor no cuelga de otro supervisor", domain.ErrValidation)
	}

	var managerID *string
	if actor.Role == entity.RoleGerente {
		// El gerente solo crea supervisores bajo sí mismo.
		if managerHint != nil && *managerHint != actor.ID {
			return Links{}, fmt.Errorf("%w: el gerente asignado debe ser el propio actor", domain.ErrValidation)
		}
		id := actor.ID
		managerID = &id
	} else {
		managerID = managerHint
		if managerID == nil && existing != nil {
			managerID = existing.ManagerID
		}
		if managerID == nil {
			return Links{}, fmt.Errorf("%w: un supervisor requiere un gerente asignado", domain.ErrValidation)
		}
	}

	if err := a.verifyLink(ctx, *managerID, entity.RoleGerente, companyID); err != nil {
		return Links{}, err
	}
	return Links{ManagerID: managerID}, nil
}

func (a *HierarchyAssigner) resolveVendedor(ctx context.Context, actor Actor, companyID string, managerHint, supervisorHint *string, existing *entity.User) (Links, error) {
	if managerHint != nil {
		return Links{}, fmt.Errorf("%w: un vendedor no cuelga directamente de un gerente", domain.ErrValidation)
	}

	var supervisorID *string
	if actor.Role == entity.RoleSupervisor {
		// El supervisor solo crea vendedores bajo sí mismo.
		if supervisorHint != nil && *supervisorHint != actor.ID {
			return Links{}, fmt.Errorf("%w: el supervisor asignado debe ser el propio actor", domain.ErrValidation)
		}
		id := actor.ID
		supervisorID = &id
	} else {
		supervisorID = supervisorHint
		if supervisorID == nil && existing != nil {
			supervisorID = existing.SupervisorID
		}
		if supervisorID == nil {
			return Links{}, fmt.Errorf("%w: un vendedor requiere un supervisor asignado", domain.ErrValidation)
		}
	}

	if err := a.verifyLink(ctx, *supervisorID, entity.RoleSupervisor, companyID); err != nil {
		return Links{}, err
	}

	// Un gerente solo cuelga vendedores de supervisores de su propio equipo.
	if actor.Role == entity.RoleGerente {
		sup, err := a.dir.GetByID(ctx, *supervisorID)
		if err != nil {
			return Links{}, fmt.Errorf("lookup supervisor %s: %w", *supervisorID, err)
		}
		if sup == nil || sup.ManagerID == nil || *sup.ManagerID != actor.ID {
			return Links{}, domain.ErrForbidden
		}
	}
	return Links{SupervisorID: supervisorID}, nil
}

// verifyLink confirma que el referenciado existe, está activo, no borrado,
// tiene el rol esperado y pertenece a la misma empresa.
func (a *HierarchyAssigner) verifyLink(ctx context.Context, id string, wantRole entity.Role, companyID string) error {
	u, err := a.dir.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup %s %s: %w", wantRole, id, err)
	}
	if u == nil || !u.IsUsable() {
		return fmt.Errorf("%w: el %s asignado no existe o está inactivo", domain.ErrValidation, wantRole)
	}
	if u.Role != wantRole {
		return fmt.Errorf("%w: el usuario asignado no tiene rol %s", domain.ErrValidation, wantRole)
	}
	if u.CompanyID == nil || *u.CompanyID != companyID {
		return fmt.Errorf("%w: el %s asignado pertenece a otra empresa", domain.ErrValidation, wantRole)
	}
	return nil
}
