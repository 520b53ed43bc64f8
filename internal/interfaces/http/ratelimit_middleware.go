package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
)

// RateLimiter lo implementa *cache.RateLimiter (Redis).
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit limita las peticiones por IP bajo la clave prefix:<ip>.
// Si Redis falla la petición pasa: el bloqueo de cuentas sigue protegiendo el login.
func RateLimit(limiter RateLimiter, prefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, err := limiter.Allow(c.UserContext(), prefix+":"+c.IP())
		if err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("rate limit no disponible")
			return c.Next()
		}
		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.Fail("RATE_LIMITED", "demasiados intentos, espere un minuto"))
		}
		return c.Next()
	}
}
