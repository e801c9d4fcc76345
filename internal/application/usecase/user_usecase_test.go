package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PanelVentas-api/internal/application/auth"
	"github.com/jhoicas/PanelVentas-api/internal/application/authz"
	"github.com/jhoicas/PanelVentas-api/internal/application/credential"
	"github.com/jhoicas/PanelVentas-api/internal/application/dto"
	"github.com/jhoicas/PanelVentas-api/internal/application/session"
	"github.com/jhoicas/PanelVentas-api/internal/application/usecase"
	"github.com/jhoicas/PanelVentas-api/internal/domain"
	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/testutil"
	"github.com/jhoicas/PanelVentas-api/pkg/logger"
)

const empresaID = "empresa-1"

func ptr(s string) *string { return &s }

type fix struct {
	uc       *usecase.UserUseCase
	users    *testutil.UserRepo
	sessions *testutil.SessionRepo
	notifier *testutil.Notifier
	manager  *session.Manager
}

// fixture arma el usecase completo con una jerarquía mínima:
// director-1 → gerente-1 → supervisor-1 → vendedor-1, más gerente-2 con
// supervisor-2 (rama ajena para los casos Forbidden).
func fixture(t *testing.T) fix {
	t.Helper()
	companyID := empresaID

	seed := []*entity.User{
		{ID: "director-1", CompanyID: &companyID, Role: entity.RoleDirector, Name: "Dora", Email: ptr("dora@empresa.com"), Active: true},
		{ID: "gerente-1", CompanyID: &companyID, Role: entity.RoleGerente, Name: "Gabriel", Email: ptr("gabriel@empresa.com"), Active: true},
		{ID: "gerente-2", CompanyID: &companyID, Role: entity.RoleGerente, Name: "Gema", Email: ptr("gema@empresa.com"), Active: true},
		{ID: "supervisor-1", CompanyID: &companyID, Role: entity.RoleSupervisor, Name: "Saul", Email: ptr("saul@empresa.com"), ManagerID: ptr("gerente-1"), Active: true},
		{ID: "supervisor-2", CompanyID: &companyID, Role: entity.RoleSupervisor, Name: "Sofía", Email: ptr("sofia@empresa.com"), ManagerID: ptr("gerente-2"), Active: true},
		{ID: "vendedor-1", CompanyID: &companyID, Role: entity.RoleVendedor, Name: "Víctor", SupervisorID: ptr("supervisor-1"), Active: true},
	}

	users := testutil.NewUserRepo(seed...)
	companies := testutil.NewCompanyRepo(&entity.Company{ID: empresaID, Name: "Empresa Uno", Active: true})
	sessions := testutil.NewSessionRepo()
	tokens := testutil.NewTokenRepo()
	tx := testutil.NewTxRunner(users, sessions, tokens)

	ledger := credential.NewLedger(tx, 72*time.Hour, 30*time.Minute)
	manager := session.NewManager(sessions, users, companies, session.Config{
		Secret: "secret-de-test", Issuer: "panel-ventas-test",
		AccessExpMinutes: 15, RefreshExpHours: 168,
	})
	scopes := authz.NewScopeResolver(users)
	notifier := &testutil.Notifier{}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	authUC := auth.NewUseCase(users, companies, ledger, manager, scopes, notifier, log)

	uc := usecase.NewUserUseCase(users, companies, scopes,
		authz.NewHierarchyAssigner(users), authUC, manager, log)
	return fix{uc: uc, users: users, sessions: sessions, notifier: notifier, manager: manager}
}

func actor(id string, role entity.Role) authz.Actor {
	a := authz.Actor{ID: id, Role: role}
	if role != entity.RoleAdmin {
		a.CompanyID = empresaID
	}
	return a
}

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

func TestCreate_RolInvitableRecibeInvitacion(t *testing.T) {
	f := fixture(t)

	resp, err := f.uc.Create(context.Background(), actor("gerente-1", entity.RoleGerente), dto.CreateUserRequest{
		Role: "supervisor", Name: "Nuevo Supervisor", Email: ptr("nuevo@empresa.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, "supervisor", resp.Role)
	assert.Equal(t, entity.PasswordStatusPendiente, resp.PasswordStatus)
	require.NotNil(t, resp.ManagerID)
	assert.Equal(t, "gerente-1", *resp.ManagerID, "el gerente creador queda como manager")

	require.Len(t, f.notifier.Invitations, 1)
	assert.Equal(t, "nuevo@empresa.com", f.notifier.Invitations[0].Email)
}

func TestCreate_VendedorSinCredenciales(t *testing.T) {
	f := fixture(t)

	resp, err := f.uc.Create(context.Background(), actor("supervisor-1", entity.RoleSupervisor), dto.CreateUserRequest{
		Role: "vendedor", Name: "Vendedor Nuevo",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PasswordStatusNoAplica, resp.PasswordStatus)
	require.NotNil(t, resp.SupervisorID)
	assert.Equal(t, "supervisor-1", *resp.SupervisorID)
	assert.Empty(t, f.notifier.Invitations, "el vendedor no recibe invitación")
}

func TestCreate_RolIgualOSuperior_Forbidden(t *testing.T) {
	f := fixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, actor("gerente-1", entity.RoleGerente), dto.CreateUserRequest{
		Role: "gerente", Name: "Otro Gerente", Email: ptr("otro@empresa.com"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Create(ctx, actor("supervisor-1", entity.RoleSupervisor), dto.CreateUserRequest{
		Role: "director", Name: "Golpe de Estado", Email: ptr("golpe@empresa.com"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_RolDesconocido_Validacion(t *testing.T) {
	f := fixture(t)

	_, err := f.uc.Create(context.Background(), actor("director-1", entity.RoleDirector), dto.CreateUserRequest{
		Role: "becario", Name: "Alguien",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_EmailRequeridoParaRolesConPanel(t *testing.T) {
	f := fixture(t)

	_, err := f.uc.Create(context.Background(), actor("director-1", entity.RoleDirector), dto.CreateUserRequest{
		Role: "gerente", Name: "Sin Email",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_EmpresaAjena_Forbidden(t *testing.T) {
	f := fixture(t)

	_, err := f.uc.Create(context.Background(), actor("director-1", entity.RoleDirector), dto.CreateUserRequest{
		CompanyID: ptr("otra-empresa"), Role: "gerente", Name: "Intruso", Email: ptr("x@y.com"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_AdminRequiereCompanyID(t *testing.T) {
	f := fixture(t)

	_, err := f.uc.Create(context.Background(), actor("admin-1", entity.RoleAdmin), dto.CreateUserRequest{
		Role: "director", Name: "Director Nuevo", Email: ptr("dir@empresa.com"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	resp, err := f.uc.Create(context.Background(), actor("admin-1", entity.RoleAdmin), dto.CreateUserRequest{
		CompanyID: ptr(empresaID), Role: "director", Name: "Director Nuevo", Email: ptr("dir@empresa.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, empresaID, *resp.CompanyID)
}

// ─────────────────────────────────────────────────────────────────────────────
// Get / List
// ─────────────────────────────────────────────────────────────────────────────

func TestGet_FueraDeAlcance_NotFound(t *testing.T) {
	f := fixture(t)

	// supervisor-2 es de la rama de gerente-2: invisible para gerente-1.
	_, err := f.uc.Get(context.Background(), actor("gerente-1", entity.RoleGerente), "supervisor-2")
	assert.ErrorIs(t, err, domain.ErrNotFound, "fuera de alcance no revela existencia")
}

func TestList_GerenteSoloVeSuRama(t *testing.T) {
	f := fixture(t)

	out, err := f.uc.List(context.Background(), actor("gerente-1", entity.RoleGerente), "", 50, 0)
	require.NoError(t, err)

	ids := make([]string, 0, len(out))
	for _, u := range out {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []string{"supervisor-1", "vendedor-1"}, ids)
}

func TestList_DirectorNoVeOtrosDirectores(t *testing.T) {
	f := fixture(t)

	out, err := f.uc.List(context.Background(), actor("director-1", entity.RoleDirector), "", 50, 0)
	require.NoError(t, err)
	for _, u := range out {
		assert.NotEqual(t, "director", u.Role)
	}
	assert.Len(t, out, 5, "dos gerentes, dos supervisores y un vendedor")
}

func TestList_AdminAcotaPorEmpresa(t *testing.T) {
	f := fixture(t)
	ctx := context.Background()

	otraEmpresa := "empresa-2"
	require.NoError(t, f.users.Create(ctx, &entity.User{
		ID: "director-b", CompanyID: &otraEmpresa, Role: entity.RoleDirector,
		Name: "Berta", Email: ptr("berta@otra.com"), Active: true,
	}))

	// Sin filtro el admin ve todas las empresas.
	out, err := f.uc.List(ctx, actor("admin-1", entity.RoleAdmin), "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, out, 7)

	// Con filtro solo la empresa pedida.
	out, err = f.uc.List(ctx, actor("admin-1", entity.RoleAdmin), otraEmpresa, 50, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "director-b", out[0].ID)
}

func TestList_FiltroDeEmpresaAjena_Forbidden(t *testing.T) {
	f := fixture(t)
	ctx := context.Background()

	_, err := f.uc.List(ctx, actor("director-1", entity.RoleDirector), "empresa-2", 50, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// El filtro sobre la propia empresa es un no-op válido.
	out, err := f.uc.List(ctx, actor("director-1", entity.RoleDirector), empresaID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, out, 5)
}

// ─────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ─────────────────────────────────────────────────────────────────────────────

func TestUpdate_FueraDeAlcance_Forbidden(t *testing.T) {
	f := fixture(t)

	_, err := f.uc.Update(context.Background(), actor("gerente-1", entity.RoleGerente), "supervisor-2", dto.UpdateUserRequest{
		Name: ptr("Renombrado"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdate_HintOmitidoConservaEnlaces(t *testing.T) {
	f := fixture(t)

	resp, err := f.uc.Update(context.Background(), actor("director-1", entity.RoleDirector), "supervisor-1", dto.UpdateUserRequest{
		Name: ptr("Saul Renombrado"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ManagerID)
	assert.Equal(t, "gerente-1", *resp.ManagerID)
}

func TestUpdate_DesactivarRevocaSesiones(t *testing.T) {
	f := fixture(t)
	ctx := context.Background()

	sup, err := f.users.GetByID(ctx, "supervisor-1")
	require.NoError(t, err)
	tokens, err := f.manager.Issue(ctx, sup, "", "")
	require.NoError(t, err)

	inactivo := false
	_, err = f.uc.Update(ctx, actor("gerente-1", entity.RoleGerente), "supervisor-1", dto.UpdateUserRequest{
		Active: &inactivo,
	})
	require.NoError(t, err)

	_, err = f.manager.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestDelete_BajaLogicaYRevocaSesiones(t *testing.T) {
	f := fixture(t)
	ctx := context.Background()

	sup, err := f.users.GetByID(ctx, "supervisor-1")
	require.NoError(t, err)
	tokens, err := f.manager.Issue(ctx, sup, "", "")
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, actor("gerente-1", entity.RoleGerente), "supervisor-1"))

	// Tombstone: el registro sigue pero no opera.
	borrado, err := f.users.GetByID(ctx, "supervisor-1")
	require.NoError(t, err)
	require.NotNil(t, borrado)
	assert.True(t, borrado.IsDeleted())

	_, err = f.manager.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	// Y desaparece de lecturas.
	_, err = f.uc.Get(ctx, actor("gerente-1", entity.RoleGerente), "supervisor-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_AutoBaja_Validacion(t *testing.T) {
	f := fixture(t)

	err := f.uc.Delete(context.Background(), actor("director-1", entity.RoleDirector), "director-1")
	assert.ErrorIs(t, err, domain.ErrForbidden, "canManage ya rechaza gestionarse a sí mismo")
}
