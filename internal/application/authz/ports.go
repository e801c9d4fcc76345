package authz

import (
	"context"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
)

// Actor es la identidad que ejecuta una operación, tal como la entrega el
// middleware de auth (claims del access token).
type Actor struct {
	ID        string
	Role      entity.Role
	CompanyID string // vacío para admin de plataforma
}

// Context etiqueta la superficie consultada; el alcance difiere por contexto.
type Context string

const (
	ContextUsers          Context = "users"
	ContextDashboard      Context = "dashboard"
	ContextConversations  Context = "conversations"
	ContextLocatedClients Context = "located_clients"
)

// Directory es el lookup de solo lectura sobre la cadena gerente/supervisor.
// Lo implementa el repositorio de usuarios; la interfaz local mantiene el
// core agnóstico del storage y evita el import circular (mismo patrón que el
// moduleChecker del middleware HTTP).
type Directory interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// ListActiveByManager: supervisores activos cuyo manager_id = managerID.
	ListActiveByManager(ctx context.Context, managerID string) ([]*entity.User, error)
	// ListActiveBySupervisor: vendedores activos cuyo supervisor_id = supervisorID.
	ListActiveBySupervisor(ctx context.Context, supervisorID string) ([]*entity.User, error)
}
