package entity

import "time"

// Role es el rol de un usuario dentro de la jerarquía comercial.
type Role string

// Jerarquía estricta de arriba hacia abajo. El orden importa: ver policy.Level.
const (
	RoleAdmin      Role = "admin"      // administrador de plataforma (sin empresa)
	RoleDirector   Role = "director"   // director de empresa
	RoleGerente    Role = "gerente"    // gerente comercial
	RoleSupervisor Role = "supervisor" // supervisor de equipo
	RoleVendedor   Role = "vendedor"   // vendedor (sin acceso al dashboard)
)

// User representa una identidad del sistema. Invariantes:
//   - CompanyID es nil solo para admin.
//   - ManagerID se usa solo cuando Role = supervisor (apunta a un gerente).
//   - SupervisorID se usa solo cuando Role = vendedor (apunta a un supervisor).
//   - Email es requerido para todos los roles salvo vendedor.
//   - PasswordHash nil significa "sin password definido" (invitación pendiente).
type User struct {
	ID           string
	CompanyID    *string
	Role         Role
	Name         string
	Email        *string
	Phone        *string
	PasswordHash *string // bcrypt, nunca sale del core
	ManagerID    *string
	SupervisorID *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time // soft delete: nunca se borra físicamente
}

// IsDeleted indica si el usuario fue dado de baja (tombstone).
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// IsUsable indica si la cuenta puede operar: activa y no eliminada.
func (u *User) IsUsable() bool {
	return u.Active && !u.IsDeleted()
}

// PasswordStatus para la vista pública de la identidad.
const (
	PasswordStatusNoAplica  = "no_aplica" // roles sin login de dashboard
	PasswordStatusPendiente = "pendiente" // invitado, sin password aún
	PasswordStatusDefinido  = "definido"
)
