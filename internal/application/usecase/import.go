package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/pkg/textnorm"
	"github.com/rs/zerolog/log"
)

// DefaultImportMaxRows límite de filas de datos por archivo si no se configura otro.
const DefaultImportMaxRows = 5000

// columnAliases nombre canónico de campo -> cabeceras aceptadas en la hoja.
// Las cabeceras se comparan con textnorm.Key (sin tildes, mayúsculas ni separadores).
type columnAliases map[string][]string

// importRow fila de datos indexada por nombre canónico.
type importRow map[string]string

func (r importRow) get(field string) string { return strings.TrimSpace(r[field]) }

// importCreate crea el registro de una fila y devuelve su clave (para reportar duplicados).
type importCreate func(ctx context.Context, row importRow) (key string, err error)

// runImport recorre rows (la primera es la cabecera) y llama create por cada fila no vacía.
// Las filas fallidas se acumulan en el resumen; no hay rollback.
func runImport(ctx context.Context, resource string, rows [][]string, maxRows int, aliases columnAliases, create importCreate) (*dto.ImportSummary, error) {
	if len(rows) == 0 {
		return nil, invalidf("el archivo está vacío")
	}
	columns := headerIndex(rows[0], aliases)
	if len(columns) == 0 {
		return nil, invalidf("la cabecera no tiene columnas reconocibles")
	}
	if maxRows <= 0 {
		maxRows = DefaultImportMaxRows
	}
	if len(rows)-1 > maxRows {
		return nil, invalidf("el archivo supera el máximo de %d filas", maxRows)
	}

	summary := &dto.ImportSummary{Duplicates: []dto.ImportDuplicate{}, Errors: []dto.ImportRowError{}}
	for i, record := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rowNum := i + 2
		row := make(importRow, len(columns))
		recognized := false
		for idx, field := range columns {
			if idx < len(record) {
				v := strings.TrimSpace(record[idx])
				row[field] = v
				if v != "" {
					recognized = true
				}
			}
		}
		if !recognized && blankRecord(record) {
			continue
		}
		summary.Total++
		if !recognized {
			summary.Errors = append(summary.Errors, dto.ImportRowError{Row: rowNum, Message: "la fila solo tiene datos en columnas no reconocidas"})
			continue
		}

		key, err := create(ctx, row)
		switch {
		case err == nil:
			summary.Created++
		case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
			summary.Duplicates = append(summary.Duplicates, dto.ImportDuplicate{Row: rowNum, Key: key})
		default:
			if !isDomainError(err) {
				log.Error().Err(err).Str("resource", resource).Int("row", rowNum).Msg("importación: error al guardar la fila")
			}
			summary.Errors = append(summary.Errors, dto.ImportRowError{Row: rowNum, Message: importMessage(err)})
		}
	}

	log.Info().
		Str("resource", resource).
		Int("total", summary.Total).
		Int("created", summary.Created).
		Int("duplicates", len(summary.Duplicates)).
		Int("errors", len(summary.Errors)).
		Msg("importación finalizada")
	return summary, nil
}

// headerIndex asocia cada posición de la cabecera con su campo canónico.
func headerIndex(header []string, aliases columnAliases) map[int]string {
	lookup := make(map[string]string)
	for field, names := range aliases {
		lookup[textnorm.Key(field)] = field
		for _, n := range names {
			lookup[textnorm.Key(n)] = field
		}
	}
	out := make(map[int]string)
	seen := make(map[string]bool)
	for i, h := range header {
		field, ok := lookup[textnorm.Key(h)]
		if !ok || seen[field] {
			continue
		}
		seen[field] = true
		out[i] = field
	}
	return out
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// rowErrors errores cuyo texto se puede mostrar al usuario.
var rowErrors = []error{
	domain.ErrInvalidInput, domain.ErrInvalidDiagnosis, domain.ErrForbidden,
	domain.ErrNotFound, domain.ErrConflict,
}

func isDomainError(err error) bool {
	for _, target := range rowErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// importMessage quita el prefijo genérico de los errores de validación. Los errores de
// infraestructura se reportan con un texto fijo; el detalle queda en el log.
func importMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": ")
	case isDomainError(err):
		return err.Error()
	}
	return "no se pudo guardar la fila"
}

// requiredFields devuelve error con el primer campo vacío.
func requiredFields(row importRow, fields ...string) error {
	for _, f := range fields {
		if row.get(f) == "" {
			return invalidf("%s es requerido", f)
		}
	}
	return nil
}
