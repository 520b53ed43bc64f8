package access

import "github.com/jhoicas/Auditoria-api/internal/domain/entity"

// Módulos protegidos por permisos.
const (
	ModuleCompanies = "companies"
	ModuleUsers     = "users"
	ModuleDoctors   = "doctors"
	ModulePatients  = "patients"
	ModuleServices  = "services"
	ModulePreBills  = "prebills"
	ModuleCIE11     = "cie11"
	ModuleReports   = "reports"
	ModuleImports   = "imports"
)

// Acciones sobre un módulo.
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionAudit  = "audit"
	ActionExport = "export"
	ActionImport = "import"
)

type actionSet map[string]struct{}

func actions(names ...string) actionSet {
	s := make(actionSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

var crud = []string{ActionRead, ActionCreate, ActionUpdate, ActionDelete}

// rolePermissions tabla estática rol → módulo → acciones. superadmin no aparece: pasa siempre.
var rolePermissions = map[string]map[string]actionSet{
	entity.RoleAdmin: {
		ModuleCompanies: actions(ActionRead, ActionUpdate),
		ModuleUsers:     actions(crud...),
		ModuleDoctors:   actions(crud...),
		ModulePatients:  actions(crud...),
		ModuleServices:  actions(append(crud, ActionAudit)...),
		ModulePreBills:  actions(append(crud, ActionExport)...),
		ModuleCIE11:     actions(ActionRead),
		ModuleReports:   actions(ActionRead, ActionExport),
		ModuleImports:   actions(ActionImport),
	},
	entity.RoleAuditor: {
		ModuleCompanies: actions(ActionRead),
		ModuleDoctors:   actions(ActionRead),
		ModulePatients:  actions(ActionRead),
		ModuleServices:  actions(ActionRead, ActionAudit),
		ModulePreBills:  actions(ActionRead),
		ModuleCIE11:     actions(ActionRead),
		ModuleReports:   actions(ActionRead),
	},
	entity.RoleFacturador: {
		ModuleCompanies: actions(ActionRead),
		ModuleDoctors:   actions(ActionRead, ActionCreate, ActionUpdate),
		ModulePatients:  actions(ActionRead, ActionCreate, ActionUpdate),
		ModuleServices:  actions(ActionRead, ActionCreate, ActionUpdate),
		ModulePreBills:  actions(ActionRead, ActionCreate, ActionUpdate, ActionExport),
		ModuleCIE11:     actions(ActionRead),
		ModuleReports:   actions(ActionRead),
		ModuleImports:   actions(ActionImport),
	},
	entity.RoleConsulta: {
		ModuleCompanies: actions(ActionRead),
		ModuleDoctors:   actions(ActionRead),
		ModulePatients:  actions(ActionRead),
		ModuleServices:  actions(ActionRead),
		ModulePreBills:  actions(ActionRead),
		ModuleCIE11:     actions(ActionRead),
		ModuleReports:   actions(ActionRead),
	},
}

// RoleAllows consulta solo la tabla estática del rol.
func RoleAllows(role, module, action string) bool {
	if role == entity.RoleSuperAdmin {
		return true
	}
	modules, ok := rolePermissions[role]
	if !ok {
		return false
	}
	acts, ok := modules[module]
	if !ok {
		return false
	}
	_, ok = acts[action]
	return ok
}

// Can decide si u puede ejecutar action sobre module.
// Una entrada de CustomPermissions para el módulo reemplaza la del rol.
func Can(u *entity.User, module, action string) bool {
	if u == nil {
		return false
	}
	if u.Role == entity.RoleSuperAdmin {
		return true
	}
	for _, p := range u.CustomPermissions {
		if p.Module != module {
			continue
		}
		for _, a := range p.Actions {
			if a == action {
				return true
			}
		}
		return false
	}
	return RoleAllows(u.Role, module, action)
}

// Modules lista los módulos conocidos.
func Modules() []string {
	return []string{
		ModuleCompanies, ModuleUsers, ModuleDoctors, ModulePatients, ModuleServices,
		ModulePreBills, ModuleCIE11, ModuleReports, ModuleImports,
	}
}

// Actions lista las acciones conocidas.
func Actions() []string {
	return []string{
		ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionAudit, ActionExport, ActionImport,
	}
}

// ValidPermission informa si module y todas las acciones son conocidas.
func ValidPermission(p entity.Permission) bool {
	if !contains(Modules(), p.Module) {
		return false
	}
	for _, a := range p.Actions {
		if !contains(Actions(), a) {
			return false
		}
	}
	return true
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
