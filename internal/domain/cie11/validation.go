// Package cie11 contiene las reglas de dominio de la tabla de referencia de
// diagnósticos CIE-11: formato del código, coherencia del rango de edad y
// condiciones para que un código sea facturable.
package cie11

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

// MaxAge edad máxima admitida en los rangos de la tabla.
const MaxAge = 120

// Motivos de rechazo devueltos en Result.Reason.
const (
	ReasonInvalidFormat = "formato de código inválido"
	ReasonNotFound      = "código no existe en la tabla CIE-11"
	ReasonInactive      = "código inactivo"
	ReasonNotBillable   = "código no facturable"
)

var (
	// ErrInvalidAgeRange rango de edad incoherente.
	ErrInvalidAgeRange = errors.New("rango de edad inválido")
	// ErrPatientOutOfRange el paciente no cumple la restricción de edad o sexo del código.
	ErrPatientOutOfRange = errors.New("el diagnóstico no aplica al paciente")
)

// Códigos de categoría (4 caracteres alfanuméricos, ej. 1A00, BA00, 5A11) con
// subcategoría opcional tras punto (ej. BA00.0, 2C10.Z).
var codePattern = regexp.MustCompile(`^[0-9A-Z]{4}(\.[0-9A-Z]{1,4})?$`)

// NormalizeCode quita espacios y pasa a mayúsculas.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

// ValidFormat informa si code (ya normalizado) tiene forma de código CIE-11.
func ValidFormat(code string) bool {
	return codePattern.MatchString(code)
}

// ValidateAgeRange exige 0 <= min <= max <= MaxAge para los límites presentes.
func ValidateAgeRange(minAge, maxAge *int) error {
	if minAge != nil && (*minAge < 0 || *minAge > MaxAge) {
		return fmt.Errorf("%w: edad mínima %d fuera de 0-%d", ErrInvalidAgeRange, *minAge, MaxAge)
	}
	if maxAge != nil && (*maxAge < 0 || *maxAge > MaxAge) {
		return fmt.Errorf("%w: edad máxima %d fuera de 0-%d", ErrInvalidAgeRange, *maxAge, MaxAge)
	}
	if minAge != nil && maxAge != nil && *minAge > *maxAge {
		return fmt.Errorf("%w: mínima %d mayor que máxima %d", ErrInvalidAgeRange, *minAge, *maxAge)
	}
	return nil
}

// Result resultado de validar un código candidato.
type Result struct {
	Code        string `json:"code"`
	IsValid     bool   `json:"isValid"`
	Reason      string `json:"reason,omitempty"`
	Description string `json:"description,omitempty"`
}

// Check decide si el registro encontrado para code es utilizable para facturar.
// found nil significa que el código no existe.
func Check(code string, found *entity.CIE11Code) Result {
	res := Result{Code: code}
	if !ValidFormat(code) {
		res.Reason = ReasonInvalidFormat
		return res
	}
	if found == nil {
		res.Reason = ReasonNotFound
		return res
	}
	res.Description = found.Description
	switch {
	case !found.Active:
		res.Reason = ReasonInactive
	case !found.Billable:
		res.Reason = ReasonNotBillable
	default:
		res.IsValid = true
	}
	return res
}

// CheckPatient verifica las restricciones de edad y sexo del código frente al paciente
// en la fecha de prestación at.
func CheckPatient(code *entity.CIE11Code, patient *entity.Patient, at time.Time) error {
	if code == nil || patient == nil {
		return nil
	}
	age := patient.AgeAt(at)
	if code.MinAge != nil && age < *code.MinAge {
		return fmt.Errorf("%w: %s requiere edad mínima %d (paciente %d)", ErrPatientOutOfRange, code.Code, *code.MinAge, age)
	}
	if code.MaxAge != nil && age > *code.MaxAge {
		return fmt.Errorf("%w: %s admite edad máxima %d (paciente %d)", ErrPatientOutOfRange, code.Code, *code.MaxAge, age)
	}
	if code.Sex != "" && patient.Sex != "" && patient.Sex != entity.SexIndeterminate && code.Sex != patient.Sex {
		return fmt.Errorf("%w: %s aplica solo a sexo %s", ErrPatientOutOfRange, code.Code, code.Sex)
	}
	return nil
}
