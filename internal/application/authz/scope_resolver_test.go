package authz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PanelVentas-api/internal/application/authz"
	"github.com/jhoicas/PanelVentas-api/internal/domain"
	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
)

const (
	empresaA = "empresa-a"
	empresaB = "empresa-b"
)

// Jerarquía de prueba en empresa A:
//
//	director-1
//	└── gerente-1
//	    ├── supervisor-1 ── vendedor-1, vendedor-2
//	    └── supervisor-2 ── vendedor-3
//	gerente-2
//	    └── supervisor-3 ── vendedor-4
func buildDirectory() *fakeDirectory {
	return newFakeDirectory(
		mkUser("director-1", entity.RoleDirector, empresaA),
		mkUser("gerente-1", entity.RoleGerente, empresaA),
		mkUser("gerente-2", entity.RoleGerente, empresaA),
		mkUser("supervisor-1", entity.RoleSupervisor, empresaA, withManager("gerente-1")),
		mkUser("supervisor-2", entity.RoleSupervisor, empresaA, withManager("gerente-1")),
		mkUser("supervisor-3", entity.RoleSupervisor, empresaA, withManager("gerente-2")),
		mkUser("vendedor-1", entity.RoleVendedor, empresaA, withSupervisor("supervisor-1")),
		mkUser("vendedor-2", entity.RoleVendedor, empresaA, withSupervisor("supervisor-1")),
		mkUser("vendedor-3", entity.RoleVendedor, empresaA, withSupervisor("supervisor-2")),
		mkUser("vendedor-4", entity.RoleVendedor, empresaA, withSupervisor("supervisor-3")),
		mkUser("director-b", entity.RoleDirector, empresaB),
	)
}

func actorDe(dir *fakeDirectory, id string) authz.Actor {
	u := dir.users[id]
	a := authz.Actor{ID: u.ID, Role: u.Role}
	if u.CompanyID != nil {
		a.CompanyID = *u.CompanyID
	}
	return a
}

// ─────────────────────────────────────────────────────────────────────────────
// Resolve
// ─────────────────────────────────────────────────────────────────────────────

func TestResolve_AdminVeTodo(t *testing.T) {
	dir := buildDirectory()
	r := authz.NewScopeResolver(dir)

	scope, err := r.Resolve(context.Background(), authz.Actor{ID: "admin-1", Role: entity.RoleAdmin}, authz.ContextUsers)
	require.NoError(t, err)
	assert.True(t, scope.All)
	assert.False(t, scope.Nothing)
}

func TestResolve_DirectorAcotadoPorEmpresaYRoles(t *testing.T) {
	dir := buildDirectory()
	r := authz.NewScopeResolver(dir)

	scope, err := r.Resolve(context.Background(), actorDe(dir, "director-1"), authz.ContextUsers)
	require.NoError(t, err)
	assert.Equal(t, empresaA, scope.CompanyID)
	assert.ElementsMatch(t,
		[]entity.Role{entity.RoleGerente, entity.RoleSupervisor, entity.RoleVendedor},
		scope.Roles, "el director no lista directores ni admins")

	// Fuera del contexto de usuarios, ve toda la empresa sin filtro de rol.
	scope, err = r.Resolve(context.Background(), actorDe(dir, "director-1"), authz.ContextDashboard)
	require.NoError(t, err)
	assert.Equal(t, empresaA, scope.CompanyID)
	assert.Empty(t, scope.Roles)
}

func TestResolve_GerenteSoloSuRama(t *testing.T) {
	dir := buildDirectory()
	r := authz.NewScopeResolver(dir)

	scope, err := r.Resolve(context.Background(), actorDe(dir, "gerente-1"), authz.ContextUsers)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"supervisor-1", "supervisor-2", "vendedor-1", "vendedor-2", "vendedor-3"},
		scope.UserIDs, "la rama de gerente-2 no debe aparecer")
}

func TestResolve_SupervisorSoloSusVendedores(t *testing.T) {
	dir := buildDirectory()
	r := authz.NewScopeResolver(dir)

	scope, err := r.Resolve(context.Background(), actorDe(dir, "supervisor-1"), authz.ContextUsers)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"vendedor-1", "vendedor-2"}, scope.UserIDs)

	// En conversaciones el supervisor también se ve a sí mismo.
	scope, err = r.Resolve(context.Background(), actorDe(dir, "supervisor-1"), authz.ContextConversations)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"vendedor-1", "vendedor-2", "supervisor-1"}, scope.UserIDs)
}

func TestResolve_VendedorNoVeNada(t *testing.T) {
	dir := buildDirectory()
	r := authz.NewScopeResolver(dir)

	for _, sctx := range []authz.Context{authz.ContextUsers, authz.ContextDashboard, authz.ContextConversations, authz.ContextLocatedClients} {
		scope, err := r.Resolve(context.Background(), actorDe(dir, "vendedor-1"), sctx)
		require.NoError(t, err)
		assert.True(t, scope.Nothing, "vendedor en contexto %s", sctx)
	}
}

func TestResolve_SupervisorSinEquipo_ScopeVacio(t *testing.T) {
	dir := newFakeDirectory(mkUser("supervisor-solo", entity.RoleSupervisor, empresaA))
	r := authz.NewScopeResolver(dir)

	scope, err := r.Resolve(context.Background(), actorDe(dir, "supervisor-solo"), authz.ContextUsers)
	require.NoError(t, err)
	assert.True(t, scope.Nothing)
}

func TestResolve_GerenteIgnoraVendedoresInactivos(t *testing.T) {
	dir := newFakeDirectory(
		mkUser("gerente-1", entity.RoleGerente, empresaA),
		mkUser("supervisor-1", entity.RoleSupervisor, empresaA, withManager("gerente-1")),
		mkUser("vendedor-1", entity.RoleVendedor, empresaA, withSupervisor("supervisor-1")),
		mkUser("vendedor-baja", entity.RoleVendedor, empresaA, withSupervisor("supervisor-1"), inactive()),
	)
	r := authz.NewScopeResolver(dir)

	scope, err := r.Resolve(context.Background(), actorDe(dir, "gerente-1"), authz.ContextUsers)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"supervisor-1", "vendedor-1"}, scope.UserIDs)
}

// ─────────────────────────────────────────────────────────────────────────────
// CanRead
// ─────────────────────────────────────────────────────────────────────────────

func TestCanRead_EmpresaAjenaSiempreInvisible(t *testing.T) {
	dir := buildDirectory()
	r := authz.NewScopeResolver(dir)

	ok, err := r.CanRead(context.Background(), actorDe(dir, "director-1"), dir.users["director-b"])
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanRead_AdminCruzaEmpresas(t *testing.T) {
	dir := buildDirectory()
	r := authz.NewScopeResolver(dir)

	ok, err := r.CanRead(context.Background(), authz.Actor{ID: "admin-1", Role: entity.RoleAdmin}, dir.users["director-b"])
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanRead_GerenteVeVendedorDeSuRama(t *testing.T) {
	dir := buildDirectory()
	r := authz.NewScopeResolver(dir)
	actor := actorDe(dir, "gerente-1")

	ok, err := r.CanRead(context.Background(), actor, dir.users["vendedor-3"])
	require.NoError(t, err)
	assert.True(t, ok, "vendedor-3 cuelga de supervisor-2, que es de gerente-1")

	ok, err = r.CanRead(context.Background(), actor, dir.users["vendedor-4"])
	require.NoError(t, err)
	assert.False(t, ok, "vendedor-4 es de la rama de gerente-2")
}

func TestCanRead_SupervisorNoVeASuGerente(t *testing.T) {
	dir := buildDirectory()
	r := authz.NewScopeResolver(dir)

	ok, err := r.CanRead(context.Background(), actorDe(dir, "supervisor-1"), dir.users["gerente-1"])
	require.NoError(t, err)
	assert.False(t, ok)
}

// ─────────────────────────────────────────────────────────────────────────────
// AssertManageScope
// ─────────────────────────────────────────────────────────────────────────────

func TestAssertManageScope_GerenteSobreRamaAjena_Forbidden(t *testing.T) {
	dir := buildDirectory()
	r := authz.NewScopeResolver(dir)

	err := r.AssertManageScope(context.Background(), actorDe(dir, "gerente-1"), dir.users["vendedor-4"])
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAssertManageScope_GerenteSobreSuRama_OK(t *testing.T) {
	dir := buildDirectory()
	r := authz.NewScopeResolver(dir)

	err := r.AssertManageScope(context.Background(), actorDe(dir, "gerente-1"), dir.users["vendedor-1"])
	assert.NoError(t, err)
}

func TestAssertManageScope_RolSinAutoridad_Forbidden(t *testing.T) {
	dir := buildDirectory()
	r := authz.NewScopeResolver(dir)

	// Un supervisor no gestiona a otro supervisor ni a su gerente.
	err := r.AssertManageScope(context.Background(), actorDe(dir, "supervisor-1"), dir.users["supervisor-2"])
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = r.AssertManageScope(context.Background(), actorDe(dir, "supervisor-1"), dir.users["gerente-1"])
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAssertManageScope_EmpresaDistinta_Forbidden(t *testing.T) {
	dir := buildDirectory()
	r := authz.NewScopeResolver(dir)

	gerenteB := mkUser("gerente-b", entity.RoleGerente, empresaB)
	err := r.AssertManageScope(context.Background(), actorDe(dir, "director-1"), gerenteB)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
