package dto

import (
	"time"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/policy"
)

type CreateUserRequest struct {
	CompanyID    *string `json:"company_id,omitempty"` // solo admin; el resto hereda la suya
	Role         string  `json:"role"`
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	ManagerID    *string `json:"manager_id,omitempty"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
}

// UpdateUserRequest: campos nil no se tocan.
type UpdateUserRequest struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Active       *bool   `json:"active,omitempty"`
	ManagerID    *string `json:"manager_id,omitempty"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
}

// UserResponse es la vista pública de una identidad. El hash de contraseña
// nunca sale del core; solo se expone su estado.
type UserResponse struct {
	ID             string    `json:"id"`
	CompanyID      *string   `json:"company_id,omitempty"`
	Role           string    `json:"role"`
	Name           string    `json:"name"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	ManagerID      *string   `json:"manager_id,omitempty"`
	SupervisorID   *string   `json:"supervisor_id,omitempty"`
	Active         bool      `json:"active"`
	PasswordStatus string    `json:"password_status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		CompanyID:      u.CompanyID,
		Role:           string(u.Role),
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		ManagerID:      u.ManagerID,
		SupervisorID:   u.SupervisorID,
		Active:         u.Active,
		PasswordStatus: passwordStatus(u),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func ToUserResponses(users []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

func passwordStatus(u *entity.User) string {
	switch {
	case !policy.IsInvitable(u.Role) && u.Role != entity.RoleAdmin:
		return entity.PasswordStatusNoAplica
	case u.PasswordHash == nil || *u.PasswordHash == "":
		return entity.PasswordStatusPendiente
	default:
		return entity.PasswordStatusDefinido
	}
}
