package dto

import "time"

// PermissionDTO permisos personalizados sobre un módulo.
type PermissionDTO struct {
	Module  string   `json:"module"`
	Actions []string `json:"actions"`
}

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Name                string          `json:"name"`
	Email               string          `json:"email"`
	Password            string          `json:"password"`
	Role                string          `json:"role"`
	AssignedCompanies   []string        `json:"assignedCompanies"`
	CanViewAllCompanies bool            `json:"canViewAllCompanies"`
	CustomPermissions   []PermissionDTO `json:"customPermissions"`
}

// UpdateUserRequest entrada para actualizar un usuario (campos opcionales).
type UpdateUserRequest struct {
	Name                *string          `json:"name"`
	Email               *string          `json:"email"`
	Password            *string          `json:"password"`
	Role                *string          `json:"role"`
	AssignedCompanies   *[]string        `json:"assignedCompanies"`
	CanViewAllCompanies *bool            `json:"canViewAllCompanies"`
	CustomPermissions   *[]PermissionDTO `json:"customPermissions"`
	Active              *bool            `json:"active"`
}

// UserFilter filtros del listado de usuarios.
type UserFilter struct {
	Search string `query:"search"`
	Role   string `query:"role"`
	Active *bool  `query:"active"`
	PageRequest
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Email               string          `json:"email"`
	Role                string          `json:"role"`
	AssignedCompanies   []string        `json:"assignedCompanies"`
	CanViewAllCompanies bool            `json:"canViewAllCompanies"`
	CustomPermissions   []PermissionDTO `json:"customPermissions"`
	Active              bool            `json:"active"`
	Locked              bool            `json:"locked"`
	LockedUntil         *time.Time      `json:"lockedUntil,omitempty"`
	LastLoginAt         *time.Time      `json:"lastLoginAt,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}
