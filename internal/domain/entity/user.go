package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleAuditor    = "auditor"
	RoleFacturador = "facturador"
	RoleConsulta   = "consulta"
)

// ValidRole informa si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleAuditor, RoleFacturador, RoleConsulta:
		return true
	}
	return false
}

// Permission sobrescribe, para un módulo, las acciones que el rol concede.
type Permission struct {
	Module  string   `json:"module"`
	Actions []string `json:"actions"`
}

// User representa un usuario del sistema. Puede estar asignado a varias empresas.
type User struct {
	ID                  string
	Name                string
	Email               string
	PasswordHash        string // bcrypt
	Role                string
	AssignedCompanies   []string
	CanViewAllCompanies bool
	CustomPermissions   []Permission
	Active              bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLoginAt         *time.Time
	CreatedBy           string
	UpdatedBy           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsLocked informa si la cuenta sigue bloqueada en el instante now.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
