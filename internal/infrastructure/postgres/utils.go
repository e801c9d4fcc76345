package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/PanelVentas-api/internal/domain"
)

// uniqueViolationError traduce una violación de constraint único (23505) al
// sentinel de dominio según el constraint golpeado; retorna nil si el error
// no es una violación única.
func uniqueViolationError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return domain.ErrEmailAlreadyExists
	case strings.Contains(pgErr.ConstraintName, "phone"):
		return domain.ErrPhoneAlreadyExists
	default:
		return domain.ErrConflict
	}
}
