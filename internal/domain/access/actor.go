package access

import "github.com/jhoicas/Auditoria-api/internal/domain/entity"

// Actor usuario autenticado que ejecuta una operación, con su alcance ya calculado.
type Actor struct {
	UserID      string
	Role        string
	Scope       Scope
	Permissions []entity.Permission // permisos personalizados del usuario
}

// ActorFor construye el Actor de u. Con u nil el alcance queda vacío.
func ActorFor(u *entity.User) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{UserID: u.ID, Role: u.Role, Scope: ScopeFor(u), Permissions: u.CustomPermissions}
}

// IsSuperAdmin informa si el actor tiene rol superadmin.
func (a Actor) IsSuperAdmin() bool { return a.Role == entity.RoleSuperAdmin }

// Can aplica Can con el rol y los permisos personalizados del actor.
func (a Actor) Can(module, action string) bool {
	if a.Role == "" {
		return false
	}
	return Can(&entity.User{Role: a.Role, CustomPermissions: a.Permissions}, module, action)
}
