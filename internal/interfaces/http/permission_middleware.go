package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

// permissionChecker es el contrato mínimo que necesita el middleware; lo implementa
// *usecase.ModuleService.
type permissionChecker interface {
	Allowed(u *entity.User, module, action string) bool
}

// RequirePermission exige que el usuario autenticado tenga action sobre module.
// Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 401 si no hay usuario en el contexto.
//   - 403 si el rol (o sus permisos personalizados) no concede la acción.
func RequirePermission(checker permissionChecker, module, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("UNAUTHORIZED", "usuario no autenticado"))
		}
		if !checker.Allowed(u, module, action) {
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail("FORBIDDEN",
				"sin permiso para '"+action+"' en el módulo '"+module+"'"))
		}
		return c.Next()
	}
}
