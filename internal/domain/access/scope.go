// Package access resuelve qué puede ver y hacer un usuario autenticado:
// el alcance por empresa (Scope) y la tabla de permisos por rol (Can).
// No tiene dependencias de infraestructura; se recalcula en cada petición.
package access

import (
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
)

// Scope conjunto de empresas visibles para un usuario.
// El valor cero no permite ninguna empresa.
type Scope struct {
	unrestricted bool
	companies    []string
}

// Unrestricted devuelve el alcance sin restricción de empresa.
func Unrestricted() Scope { return Scope{unrestricted: true} }

// Companies devuelve un alcance limitado a ids (copia la lista, ignora vacíos y repetidos).
func Companies(ids ...string) Scope {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return Scope{companies: out}
}

// ScopeFor calcula el alcance de u a partir de su perfil de acceso.
// Usuario nil: alcance vacío.
func ScopeFor(u *entity.User) Scope {
	if u == nil {
		return Scope{}
	}
	if u.CanViewAllCompanies {
		return Unrestricted()
	}
	return Companies(u.AssignedCompanies...)
}

// IsUnrestricted informa si el alcance cubre todas las empresas.
func (s Scope) IsUnrestricted() bool { return s.unrestricted }

// CompanyIDs devuelve una copia de las empresas permitidas (nil si no hay restricción).
func (s Scope) CompanyIDs() []string {
	if s.unrestricted {
		return nil
	}
	out := make([]string, len(s.companies))
	copy(out, s.companies)
	return out
}

// Allows informa si companyID está dentro del alcance.
func (s Scope) Allows(companyID string) bool {
	if s.unrestricted {
		return true
	}
	for _, id := range s.companies {
		if id == companyID {
			return true
		}
	}
	return false
}

// Apply devuelve base acotado al campo de empresa. Sin restricción devuelve base tal cual;
// con lista vacía el predicado resultante no coincide con ningún registro.
func (s Scope) Apply(base repository.Filter) repository.Filter {
	if s.unrestricted {
		return base
	}
	return base.In(repository.FieldCompany, s.companies)
}
