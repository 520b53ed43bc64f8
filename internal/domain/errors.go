package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrAccountLocked      = errors.New("cuenta bloqueada temporalmente")
	ErrAccountInactive    = errors.New("cuenta inactiva")
	ErrInvalidDiagnosis   = errors.New("diagnóstico CIE-11 inválido")
	ErrNothingToBill      = errors.New("no hay servicios auditados para prefacturar")
)
