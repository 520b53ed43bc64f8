package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain"
)

// errorMapping traduce un error de dominio a status HTTP y código.
type errorMapping struct {
	target error
	status int
	code   string
}

// Gana el primer sentinel que coincida con errors.Is.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidDiagnosis, fiber.StatusBadRequest, "INVALID_DIAGNOSIS"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrAccountLocked, fiber.StatusForbidden, "ACCOUNT_LOCKED"},
	{domain.ErrAccountInactive, fiber.StatusForbidden, "ACCOUNT_INACTIVE"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrNothingToBill, fiber.StatusConflict, "NOTHING_TO_BILL"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// fail responde el error con el sobre {success:false, code, message}.
// Los errores no reconocidos son 500 y se registran; su detalle no sale al cliente.
func fail(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.Fail(m.code, message(err)))
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("INTERNAL", "error interno del servidor"))
}

// message quita el prefijo genérico del sentinel cuando el error trae detalle.
// "entrada inválida: fecha inválida" → "fecha inválida".
func message(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 && i < len(msg)-2 {
		for _, m := range errorMappings {
			if msg[:i] == m.target.Error() {
				return msg[i+2:]
			}
		}
	}
	return msg
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_BODY", "cuerpo inválido"))
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(dto.OK(data))
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(dto.OK(data))
}

func deleted(c *fiber.Ctx) error {
	return c.JSON(dto.OK(fiber.Map{"deleted": true}))
}

func queryErr(err error) error {
	return fmt.Errorf("%w: parámetros de consulta inválidos: %v", domain.ErrInvalidInput, err)
}
