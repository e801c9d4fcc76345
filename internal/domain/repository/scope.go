package repository

import "github.com/jhoicas/PanelVentas-api/internal/domain/entity"

// Scope es el predicado de visibilidad que produce el resolvedor de alcance
// y que todo listado debe intersectar. Los repositorios lo traducen a SQL;
// el core nunca arma queries.
type Scope struct {
	// Nothing: el actor no ve nada (p. ej. vendedor consultando el dashboard).
	Nothing bool
	// All: sin restricción (admin de plataforma).
	All bool
	// CompanyID restringe a una empresa ("" = sin filtro; solo admin).
	CompanyID string
	// Roles restringe los roles visibles (vacío = todos).
	Roles []entity.Role
	// UserIDs restringe a identidades/propietarios concretos (equipos de
	// gerente o supervisor). Vacío = sin restricción por id.
	UserIDs []string
}

// ScopeAll devuelve el predicado sin restricciones.
func ScopeAll() Scope { return Scope{All: true} }

// ScopeNothing devuelve el predicado que no matchea nada.
func ScopeNothing() Scope { return Scope{Nothing: true} }
