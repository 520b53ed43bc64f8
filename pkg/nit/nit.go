// Package nit normaliza y valida el NIT colombiano con su dígito de verificación
// (módulo 11, Orden Administrativa 4 de 1989 de la DIAN).
package nit

import (
	"errors"
	"fmt"
	"strings"
)

// pesos aplicados de derecha a izquierda sobre la base del NIT.
var weights = [15]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

const (
	minBaseDigits = 5
	maxBaseDigits = len(weights)
)

// ErrInvalid NIT mal formado o con dígito de verificación incorrecto.
var ErrInvalid = errors.New("nit inválido")

// CheckDigit calcula el dígito de verificación de base (solo dígitos).
func CheckDigit(base string) (byte, error) {
	if len(base) < minBaseDigits || len(base) > maxBaseDigits {
		return 0, fmt.Errorf("%w: la base debe tener entre %d y %d dígitos", ErrInvalid, minBaseDigits, maxBaseDigits)
	}
	var sum int
	for i := 0; i < len(base); i++ {
		d := base[len(base)-1-i]
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("%w: %q no es numérico", ErrInvalid, base)
		}
		sum += int(d-'0') * weights[i]
	}
	r := sum % 11
	if r > 1 {
		r = 11 - r
	}
	return byte('0' + r), nil
}

// Normalize devuelve el NIT en forma canónica "900123456-8".
// Con guion, lo que sigue al último guion es el dígito de verificación y se valida;
// sin guion, todos los dígitos son la base y el dígito se calcula.
// Se ignoran puntos y espacios.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	base, dv, hasDV := s, "", false
	if i := strings.LastIndex(s, "-"); i >= 0 {
		base, dv, hasDV = s[:i], s[i+1:], true
	}
	base = digits(base)
	if len(base) == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	expected, err := CheckDigit(base)
	if err != nil {
		return "", err
	}
	if hasDV {
		dv = digits(dv)
		if len(dv) != 1 || dv[0] != expected {
			return "", fmt.Errorf("%w: dígito de verificación de %s debe ser %c", ErrInvalid, base, expected)
		}
	}
	return base + "-" + string(expected), nil
}

// digits quita puntos y espacios; cualquier otro carácter no numérico invalida s.
func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ' ':
		default:
			return ""
		}
	}
	return b.String()
}
