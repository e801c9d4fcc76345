package authz_test

import (
	"context"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
)

// fakeDirectory implementa authz.Directory en memoria para los tests.
type fakeDirectory struct {
	users map[string]*entity.User
}

func newFakeDirectory(users ...*entity.User) *fakeDirectory {
	d := &fakeDirectory{users: make(map[string]*entity.User)}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *fakeDirectory) GetByID(_ context.Context, id string) (*entity.User, error) {
	return d.users[id], nil
}

func (d *fakeDirectory) ListActiveByManager(_ context.Context, managerID string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range d.users {
		if u.IsUsable() && u.Role == entity.RoleSupervisor && u.ManagerID != nil && *u.ManagerID == managerID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *fakeDirectory) ListActiveBySupervisor(_ context.Context, supervisorID string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range d.users {
		if u.IsUsable() && u.Role == entity.RoleVendedor && u.SupervisorID != nil && *u.SupervisorID == supervisorID {
			out = append(out, u)
		}
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers de construcción
// ─────────────────────────────────────────────────────────────────────────────

func ptr(s string) *string { return &s }

func mkUser(id string, role entity.Role, companyID string, opts ...func(*entity.User)) *entity.User {
	u := &entity.User{
		ID:     id,
		Role:   role,
		Name:   "Usuario " + id,
		Active: true,
	}
	if companyID != "" {
		u.CompanyID = ptr(companyID)
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func withManager(id string) func(*entity.User) {
	return func(u *entity.User) { u.ManagerID = ptr(id) }
}

func withSupervisor(id string) func(*entity.User) {
	return func(u *entity.User) { u.SupervisorID = ptr(id) }
}

func inactive() func(*entity.User) {
	return func(u *entity.User) { u.Active = false }
}
