package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
)

// DateLayout formato de fechas de entrada y salida (sin hora).
const DateLayout = "2006-01-02"

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// parseDate acepta YYYY-MM-DD y, para hojas de cálculo, DD/MM/YYYY.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, "02/01/2006", "2/1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalidf("%s debe tener formato YYYY-MM-DD", field)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// validID evita consultar la base con ids que no son UUID (la columna es uuid).
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func newID() string { return uuid.New().String() }

// requireCompany exige que la empresa esté dentro del alcance del actor.
func requireCompany(actor access.Actor, companyID string) error {
	if !actor.Scope.Allows(companyID) {
		return domain.ErrForbidden
	}
	return nil
}

// companyFilter acota base al alcance del actor y, si se pide, a una sola empresa.
// Pedir una empresa fuera del alcance es ErrForbidden.
func companyFilter(actor access.Actor, base repository.Filter, companyID string) (repository.Filter, error) {
	if companyID != "" {
		if !validID(companyID) {
			return base, invalidf("companyId inválido")
		}
		if err := requireCompany(actor, companyID); err != nil {
			return base, err
		}
		base = base.Eq(repository.FieldCompany, companyID)
	}
	return actor.Scope.Apply(base), nil
}

func withActive(f repository.Filter, active *bool) repository.Filter {
	if active == nil {
		return f
	}
	return f.Eq(repository.FieldActive, *active)
}

func withSearch(f repository.Filter, search string) repository.Filter {
	search = strings.TrimSpace(search)
	if search == "" {
		return f
	}
	return f.Where(repository.FieldSearch, repository.OpILike, search)
}

func trimPtr(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
