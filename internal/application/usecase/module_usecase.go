package usecase

import (
	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

// ModuleService resuelve los permisos efectivos de un usuario por módulo.
// Es el único punto de la aplicación que combina la tabla de roles con las excepciones del usuario.
type ModuleService struct{}

// NewModuleService construye el servicio de módulos.
func NewModuleService() *ModuleService {
	return &ModuleService{}
}

// Allowed informa si u puede ejecutar action sobre module.
func (s *ModuleService) Allowed(u *entity.User, module, action string) bool {
	return access.Can(u, module, action)
}

// Effective devuelve, por módulo, las acciones permitidas a u.
// Los módulos sin ninguna acción no aparecen.
func (s *ModuleService) Effective(u *entity.User) map[string][]string {
	out := make(map[string][]string)
	for _, m := range access.Modules() {
		var allowed []string
		for _, a := range access.Actions() {
			if access.Can(u, m, a) {
				allowed = append(allowed, a)
			}
		}
		if len(allowed) > 0 {
			out[m] = allowed
		}
	}
	return out
}
