package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, company_id, role, name, email, phone, password_hash,
	manager_id, supervisor_id, active, created_at, updated_at, deleted_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
// Acepta el pool o una transacción (ver TxRunner).
func NewUserRepository(db Querier) *UserRepo {
	return &UserRepo{db: db}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.CompanyID, user.Role, user.Name, user.Email, user.Phone,
		user.PasswordHash, user.ManagerID, user.SupervisorID, user.Active,
		user.CreatedAt, user.UpdatedAt, user.DeletedAt,
	)
	if err != nil {
		if uerr := uniqueViolationError(err); uerr != nil {
			return uerr
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID (incluye inactivos y eliminados).
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail obtiene un usuario por email normalizado (incluye inactivos y
// eliminados; el llamador decide qué estados acepta).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1`, email))
}

// Update actualiza los campos mutables de un usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, phone = $4, manager_id = $5,
		    supervisor_id = $6, active = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.Phone, user.ManagerID,
		user.SupervisorID, user.Active, user.UpdatedAt,
	)
	if err != nil {
		if uerr := uniqueViolationError(err); uerr != nil {
			return uerr
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// UpdatePasswordHash fija el hash de contraseña (activación o reset).
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, hash, at)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	return nil
}

// SoftDelete marca el tombstone; la fila nunca se borra.
func (r *UserRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET deleted_at = $2, active = false, updated_at = $2
		 WHERE id = $1 AND deleted_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	return nil
}

// List intersecta el listado con el predicado de alcance.
func (r *UserRepo) List(ctx context.Context, scope repository.Scope, limit, offset int) ([]*entity.User, error) {
	if scope.Nothing {
		return nil, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL`
	args := []any{}
	if !scope.All {
		if scope.CompanyID != "" {
			args = append(args, scope.CompanyID)
			query += fmt.Sprintf(" AND company_id = $%d", len(args))
		}
		if len(scope.Roles) > 0 {
			roles := make([]string, len(scope.Roles))
			for i, role := range scope.Roles {
				roles[i] = string(role)
			}
			args = append(args, roles)
			query += fmt.Sprintf(" AND role = ANY($%d)", len(args))
		}
		if len(scope.UserIDs) > 0 {
			args = append(args, scope.UserIDs)
			query += fmt.Sprintf(" AND id = ANY($%d)", len(args))
		}
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListActive lista usuarios activos por rol y empresa.
func (r *UserRepo) ListActive(ctx context.Context, role entity.Role, companyID string) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE role = $1 AND company_id = $2 AND active AND deleted_at IS NULL
		 ORDER BY name`, role, companyID)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListActiveByManager lista los supervisores activos de un gerente.
func (r *UserRepo) ListActiveByManager(ctx context.Context, managerID string) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE manager_id = $1 AND active AND deleted_at IS NULL
		 ORDER BY name`, managerID)
	if err != nil {
		return nil, fmt.Errorf("list by manager: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListActiveBySupervisor lista los vendedores activos de un supervisor.
func (r *UserRepo) ListActiveBySupervisor(ctx context.Context, supervisorID string) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE supervisor_id = $1 AND active AND deleted_at IS NULL
		 ORDER BY name`, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("list by supervisor: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *UserRepo) scanOne(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.CompanyID, &u.Role, &u.Name, &u.Email, &u.Phone,
		&u.PasswordHash, &u.ManagerID, &u.SupervisorID, &u.Active,
		&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) scanAll(rows pgx.Rows) ([]*entity.User, error) {
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(
			&u.ID, &u.CompanyID, &u.Role, &u.Name, &u.Email, &u.Phone,
			&u.PasswordHash, &u.ManagerID, &u.SupervisorID, &u.Active,
			&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
