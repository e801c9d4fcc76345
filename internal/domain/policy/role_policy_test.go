package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/policy"
)

var allRoles = []entity.Role{
	entity.RoleAdmin,
	entity.RoleDirector,
	entity.RoleGerente,
	entity.RoleSupervisor,
	entity.RoleVendedor,
}

// ──────────────────────────────────────────────────────────────────────────────
// CanCreate — matriz completa de la jerarquía
// ──────────────────────────────────────────────────────────────────────────────

// Admin puede crear cualquier rol, incluido otro admin.
func TestCanCreate_AdminCreaCualquierRol(t *testing.T) {
	for _, r := range allRoles {
		assert.True(t, policy.CanCreate(entity.RoleAdmin, r),
			"admin debe poder crear rol %s", r)
	}
}

// Vendedor nunca crea a nadie.
func TestCanCreate_VendedorNoCreaNada(t *testing.T) {
	for _, r := range allRoles {
		assert.False(t, policy.CanCreate(entity.RoleVendedor, r),
			"vendedor no debe poder crear rol %s", r)
	}
}

// Regla general: salvo admin, solo se crean roles estrictamente inferiores.
func TestCanCreate_SoloRolesEstrictamenteInferiores(t *testing.T) {
	for _, actor := range allRoles {
		for _, target := range allRoles {
			got := policy.CanCreate(actor, target)
			want := actor == entity.RoleAdmin || policy.Level(target) > policy.Level(actor)
			assert.Equal(t, want, got,
				"CanCreate(%s, %s)", actor, target)
		}
	}
}

// Nadie (salvo admin) crea su propio rol ni uno superior.
func TestCanCreate_NuncaRolIgualOSuperior(t *testing.T) {
	for _, actor := range allRoles[1:] { // sin admin
		assert.False(t, policy.CanCreate(actor, actor),
			"%s no debe poder crear su propio rol", actor)
		for _, target := range allRoles {
			if policy.Level(target) <= policy.Level(actor) {
				assert.False(t, policy.CanCreate(actor, target),
					"%s no debe poder crear %s", actor, target)
			}
		}
	}
}

// Roles desconocidos quedan fuera de la jerarquía.
func TestCanCreate_RolDesconocidoDenegado(t *testing.T) {
	assert.False(t, policy.CanCreate(entity.Role("gerenta"), entity.RoleVendedor))
	assert.False(t, policy.CanCreate(entity.RoleAdmin, entity.Role("root")))
}

// CanManage es idéntico a CanCreate por diseño.
func TestCanManage_IgualQueCanCreate(t *testing.T) {
	for _, actor := range allRoles {
		for _, target := range allRoles {
			assert.Equal(t, policy.CanCreate(actor, target), policy.CanManage(actor, target),
				"CanManage(%s, %s) debe coincidir con CanCreate", actor, target)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// IsInvitable / DashboardEligible
// ──────────────────────────────────────────────────────────────────────────────

func TestIsInvitable(t *testing.T) {
	assert.False(t, policy.IsInvitable(entity.RoleAdmin), "admin se crea con password directo")
	assert.True(t, policy.IsInvitable(entity.RoleDirector))
	assert.True(t, policy.IsInvitable(entity.RoleGerente))
	assert.True(t, policy.IsInvitable(entity.RoleSupervisor))
	assert.False(t, policy.IsInvitable(entity.RoleVendedor), "vendedor no tiene login")
}

func TestDashboardEligible(t *testing.T) {
	assert.True(t, policy.DashboardEligible(entity.RoleAdmin))
	assert.True(t, policy.DashboardEligible(entity.RoleSupervisor))
	assert.False(t, policy.DashboardEligible(entity.RoleVendedor))
	assert.False(t, policy.DashboardEligible(entity.Role("otro")))
}
