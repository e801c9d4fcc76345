// Package policy codifica las reglas estáticas de la jerarquía de roles.
// Funciones puras, sin estado ni I/O: los llamadores deciden cómo traducir
// una negación (Forbidden, filtro de listado, etc.).
package policy

import "github.com/jhoicas/PanelVentas-api/internal/domain/entity"

// levels define el orden total de la jerarquía: menor nivel = mayor autoridad.
var levels = map[entity.Role]int{
	entity.RoleAdmin:      0,
	entity.RoleDirector:   1,
	entity.RoleGerente:    2,
	entity.RoleSupervisor: 3,
	entity.RoleVendedor:   4,
}

// Valid indica si el rol existe en la jerarquía.
func Valid(role entity.Role) bool {
	_, ok := levels[role]
	return ok
}

// Level devuelve la posición del rol en la jerarquía (0 = admin).
// Roles desconocidos quedan por debajo de todo.
func Level(role entity.Role) int {
	if l, ok := levels[role]; ok {
		return l
	}
	return len(levels)
}

// CanCreate indica si actorRole puede crear una cuenta con targetRole.
// Admin crea cualquier rol; el resto solo roles estrictamente por debajo
// del suyo. Nadie crea un rol igual o superior al propio.
func CanCreate(actorRole, targetRole entity.Role) bool {
	if !Valid(actorRole) || !Valid(targetRole) {
		return false
	}
	if actorRole == entity.RoleAdmin {
		return true
	}
	return Level(targetRole) > Level(actorRole)
}

// CanManage indica si actorRole puede editar/mover una cuenta con targetRole.
// Editar exige la misma autoridad que crear.
func CanManage(actorRole, targetRole entity.Role) bool {
	return CanCreate(actorRole, targetRole)
}

// IsInvitable indica si el rol se activa vía invitación por email con
// password elegido por el usuario. El vendedor no tiene login de dashboard
// y el admin se crea con password directo.
func IsInvitable(role entity.Role) bool {
	switch role {
	case entity.RoleDirector, entity.RoleGerente, entity.RoleSupervisor:
		return true
	default:
		return false
	}
}

// DashboardEligible indica si el rol puede autenticarse en el dashboard.
func DashboardEligible(role entity.Role) bool {
	return Valid(role) && role != entity.RoleVendedor
}
