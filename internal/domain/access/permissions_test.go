package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

func TestCan_SuperadminPuedeTodo(t *testing.T) {
	u := &entity.User{Role: entity.RoleSuperAdmin}
	for _, m := range append(access.Modules(), "modulo-desconocido") {
		for _, a := range append(access.Actions(), "accion-desconocida") {
			assert.True(t, access.Can(u, m, a), "%s/%s", m, a)
		}
	}
}

// Para cada rol no superadmin, Can coincide exactamente con la tabla estática.
func TestCan_RolesSoloConcedenLoDeLaTabla(t *testing.T) {
	roles := []string{entity.RoleAdmin, entity.RoleAuditor, entity.RoleFacturador, entity.RoleConsulta}
	for _, role := range roles {
		u := &entity.User{Role: role}
		for _, m := range access.Modules() {
			for _, a := range access.Actions() {
				assert.Equal(t, access.RoleAllows(role, m, a), access.Can(u, m, a), "%s %s/%s", role, m, a)
			}
		}
		assert.False(t, access.Can(u, "modulo-desconocido", access.ActionRead))
		assert.False(t, access.Can(u, access.ModuleServices, "accion-desconocida"))
	}
}

func TestCan_TablaDeEjemplos(t *testing.T) {
	cases := []struct {
		role, module, action string
		want                 bool
	}{
		{entity.RoleAdmin, access.ModuleUsers, access.ActionCreate, true},
		{entity.RoleAdmin, access.ModuleCompanies, access.ActionCreate, false},
		{entity.RoleAuditor, access.ModuleServices, access.ActionAudit, true},
		{entity.RoleAuditor, access.ModuleServices, access.ActionCreate, false},
		{entity.RoleFacturador, access.ModulePreBills, access.ActionCreate, true},
		{entity.RoleFacturador, access.ModuleServices, access.ActionAudit, false},
		{entity.RoleConsulta, access.ModulePatients, access.ActionRead, true},
		{entity.RoleConsulta, access.ModulePatients, access.ActionUpdate, false},
		{"rol-inventado", access.ModulePatients, access.ActionRead, false},
		{"", access.ModulePatients, access.ActionRead, false},
	}
	for _, tc := range cases {
		u := &entity.User{Role: tc.role}
		assert.Equal(t, tc.want, access.Can(u, tc.module, tc.action), "%s %s/%s", tc.role, tc.module, tc.action)
	}
}

func TestCan_PermisosPersonalizadosReemplazanAlRol(t *testing.T) {
	u := &entity.User{
		Role: entity.RoleConsulta,
		CustomPermissions: []entity.Permission{
			{Module: access.ModuleServices, Actions: []string{access.ActionAudit}},
		},
	}
	assert.True(t, access.Can(u, access.ModuleServices, access.ActionAudit))
	// el read del rol para services queda reemplazado
	assert.False(t, access.Can(u, access.ModuleServices, access.ActionRead))
	// los demás módulos siguen la tabla del rol
	assert.True(t, access.Can(u, access.ModulePatients, access.ActionRead))
}

func TestCan_UsuarioNil(t *testing.T) {
	assert.False(t, access.Can(nil, access.ModuleReports, access.ActionRead))
}

func TestValidPermission(t *testing.T) {
	assert.True(t, access.ValidPermission(entity.Permission{Module: access.ModuleServices, Actions: []string{access.ActionRead}}))
	assert.False(t, access.ValidPermission(entity.Permission{Module: "x", Actions: []string{access.ActionRead}}))
	assert.False(t, access.ValidPermission(entity.Permission{Module: access.ModuleServices, Actions: []string{"x"}}))
}

func TestActor_CanUsaRolYPermisosDelUsuario(t *testing.T) {
	u := &entity.User{
		ID: "u1", Role: entity.RoleAdmin,
		CustomPermissions: []entity.Permission{
			{Module: access.ModuleReports, Actions: []string{access.ActionRead, access.ActionExport}},
		},
	}
	a := access.ActorFor(u)
	assert.True(t, a.Can(access.ModuleReports, access.ActionExport))
	assert.True(t, a.Can(access.ModuleUsers, access.ActionUpdate))
	assert.False(t, a.Can(access.ModuleCIE11, access.ActionDelete))
	assert.False(t, access.Actor{}.Can(access.ModuleReports, access.ActionRead))
}
