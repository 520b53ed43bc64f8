package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func c1Admin() access.Actor {
	return access.Actor{UserID: adminID, Role: entity.RoleAdmin, Scope: access.Companies(companyC1)}
}

func newUserFixture(users ...*entity.User) (*UserUseCase, *fakeUserRepo) {
	repo := newFakeUserRepo(users...)
	companies := newFakeCompanyRepo(testCompany(companyC1, "900111222-1"), testCompany(companyC2, "900222333-5"))
	return NewUserUseCase(repo, companies), repo
}

func newUserRequest() dto.CreateUserRequest {
	return dto.CreateUserRequest{
		Name:              "Auditora Uno",
		Email:             " Auditora@IPS.co ",
		Password:          "secreta123",
		Role:              entity.RoleAuditor,
		AssignedCompanies: []string{companyC1, companyC1},
	}
}

func TestUserCreate(t *testing.T) {
	uc, repo := newUserFixture()

	out, err := uc.Create(context.Background(), c1Admin(), newUserRequest())
	require.NoError(t, err)
	assert.Equal(t, "auditora@ips.co", out.Email)
	assert.Equal(t, []string{companyC1}, out.AssignedCompanies)
	assert.False(t, out.CanViewAllCompanies)

	stored, _ := repo.GetByID(context.Background(), out.ID)
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreta123")))

	_, err = uc.Create(context.Background(), c1Admin(), newUserRequest())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserCreate_PerfilDeAcceso(t *testing.T) {
	cases := []struct {
		name   string
		actor  access.Actor
		mutate func(*dto.CreateUserRequest)
		want   error
	}{
		{"empresa fuera del alcance", c1Admin(), func(r *dto.CreateUserRequest) { r.AssignedCompanies = []string{companyC2} }, domain.ErrForbidden},
		{"vista global desde actor restringido", c1Admin(), func(r *dto.CreateUserRequest) { r.CanViewAllCompanies = true }, domain.ErrForbidden},
		{"superadmin desde admin", c1Admin(), func(r *dto.CreateUserRequest) { r.Role = entity.RoleSuperAdmin }, domain.ErrForbidden},
		{"rol desconocido", c1Admin(), func(r *dto.CreateUserRequest) { r.Role = "root" }, domain.ErrInvalidInput},
		{"contraseña corta", c1Admin(), func(r *dto.CreateUserRequest) { r.Password = "corta" }, domain.ErrInvalidInput},
		{"email inválido", c1Admin(), func(r *dto.CreateUserRequest) { r.Email = "sin-arroba" }, domain.ErrInvalidInput},
		{"empresa inexistente", superActor(), func(r *dto.CreateUserRequest) { r.AssignedCompanies = []string{newID()} }, domain.ErrInvalidInput},
		{"permiso con módulo desconocido", c1Admin(), func(r *dto.CreateUserRequest) {
			r.CustomPermissions = []dto.PermissionDTO{{Module: "inventario", Actions: []string{access.ActionRead}}}
		}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, _ := newUserFixture()
			req := newUserRequest()
			tc.mutate(&req)
			_, err := uc.Create(context.Background(), tc.actor, req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUserCreate_SuperadminVeTodo(t *testing.T) {
	uc, _ := newUserFixture()
	req := newUserRequest()
	req.Role = entity.RoleSuperAdmin
	req.AssignedCompanies = nil

	out, err := uc.Create(context.Background(), superActor(), req)
	require.NoError(t, err)
	assert.True(t, out.CanViewAllCompanies)
}

func TestUserList_SoloUsuariosDelAlcance(t *testing.T) {
	uc, _ := newUserFixture(
		&entity.User{ID: newID(), Name: "a", Email: "a@x.co", Role: entity.RoleAuditor, AssignedCompanies: []string{companyC1}, Active: true},
		&entity.User{ID: newID(), Name: "b", Email: "b@x.co", Role: entity.RoleAuditor, AssignedCompanies: []string{companyC2}, Active: true},
		&entity.User{ID: newID(), Name: "c", Email: "c@x.co", Role: entity.RoleConsulta, AssignedCompanies: []string{companyC1, companyC2}, Active: true},
	)

	out, err := uc.List(context.Background(), c1Admin(), dto.UserFilter{})
	require.NoError(t, err)
	names := []string{}
	for _, u := range out.Items {
		names = append(names, u.Name)
	}
	assert.ElementsMatch(t, []string{"a", "c"}, names)

	out, err = uc.List(context.Background(), superActor(), dto.UserFilter{Role: entity.RoleAuditor})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
}

func TestUserDelete_NoASiMismo(t *testing.T) {
	self := &entity.User{ID: adminID, Name: "admin", Email: "admin@x.co", Role: entity.RoleAdmin, AssignedCompanies: []string{companyC1}, Active: true}
	uc, _ := newUserFixture(self)
	assert.ErrorIs(t, uc.Delete(context.Background(), c1Admin(), adminID), domain.ErrConflict)
}

func TestUserUnlock(t *testing.T) {
	until := time.Now().Add(time.Hour)
	locked := &entity.User{
		ID: newID(), Name: "b", Email: "b@x.co", Role: entity.RoleAuditor, AssignedCompanies: []string{companyC1},
		Active: true, FailedLoginAttempts: 5, LockedUntil: &until,
	}
	uc, repo := newUserFixture(locked)

	_, err := uc.Unlock(context.Background(), c1Admin(), locked.ID)
	require.NoError(t, err)
	stored, _ := repo.GetByID(context.Background(), locked.ID)
	assert.Zero(t, stored.FailedLoginAttempts)
	assert.Nil(t, stored.LockedUntil)
}

func TestUserUpdate_NoModificaSuPropioPerfil(t *testing.T) {
	self := &entity.User{ID: adminID, Name: "admin", Email: "admin@x.co", Role: entity.RoleAdmin, AssignedCompanies: []string{companyC1}, Active: true}
	uc, repo := newUserFixture(self)
	ctx := context.Background()

	grant := []dto.PermissionDTO{
		{Module: access.ModuleCIE11, Actions: []string{access.ActionDelete, access.ActionUpdate}},
		{Module: access.ModuleCompanies, Actions: []string{access.ActionDelete}},
	}
	_, err := uc.Update(ctx, c1Admin(), adminID, dto.UpdateUserRequest{CustomPermissions: &grant})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	role := entity.RoleConsulta
	_, err = uc.Update(ctx, c1Admin(), adminID, dto.UpdateUserRequest{Role: &role})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, _ := repo.GetByID(ctx, adminID)
	assert.Empty(t, stored.CustomPermissions)
	assert.False(t, access.Can(stored, access.ModuleCIE11, access.ActionDelete))
	assert.Equal(t, entity.RoleAdmin, stored.Role)

	// los datos personales sí se pueden editar
	name := "Administradora"
	sameRole := entity.RoleAdmin
	out, err := uc.Update(ctx, c1Admin(), adminID, dto.UpdateUserRequest{Name: &name, Role: &sameRole})
	require.NoError(t, err)
	assert.Equal(t, "Administradora", out.Name)
}

func TestUserProfile_PermisosAcotadosAlActor(t *testing.T) {
	ctx := context.Background()

	uc, _ := newUserFixture()
	req := newUserRequest()
	req.CustomPermissions = []dto.PermissionDTO{{Module: access.ModuleCIE11, Actions: []string{access.ActionRead, access.ActionDelete}}}
	_, err := uc.Create(ctx, c1Admin(), req)
	assert.ErrorIs(t, err, domain.ErrForbidden, "admin no tiene cie11:delete")

	req.CustomPermissions = []dto.PermissionDTO{{Module: access.ModuleReports, Actions: []string{access.ActionRead, access.ActionExport}}}
	out, err := uc.Create(ctx, c1Admin(), req)
	require.NoError(t, err)
	assert.Len(t, out.CustomPermissions, 1)

	// otro usuario tampoco recibe lo que el actor no tiene
	grant := []dto.PermissionDTO{{Module: access.ModuleCompanies, Actions: []string{access.ActionDelete}}}
	_, err = uc.Update(ctx, c1Admin(), out.ID, dto.UpdateUserRequest{CustomPermissions: &grant})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// un permiso personalizado del actor sí cuenta
	withExtra := c1Admin()
	withExtra.Permissions = []entity.Permission{{Module: access.ModuleCompanies, Actions: []string{access.ActionRead, access.ActionDelete}}}
	_, err = uc.Update(ctx, withExtra, out.ID, dto.UpdateUserRequest{CustomPermissions: &grant})
	require.NoError(t, err)

	req.Email = "otra@ips.co"
	req.CustomPermissions = []dto.PermissionDTO{{Module: access.ModuleCIE11, Actions: []string{access.ActionDelete}}}
	_, err = uc.Create(ctx, superActor(), req)
	assert.NoError(t, err)
}

func TestCompanyUseCase_Alcance(t *testing.T) {
	repo := newFakeCompanyRepo(testCompany(companyC1, "900111222-1"), testCompany(companyC2, "900222333-5"))
	uc := NewCompanyUseCase(repo)
	ctx := context.Background()

	_, err := uc.Create(ctx, c1Admin(), dto.CreateCompanyRequest{Name: "Nueva", NIT: "900333444"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Create(ctx, superActor(), dto.CreateCompanyRequest{Name: "Repetida", NIT: "900.111.222"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, superActor(), dto.CreateCompanyRequest{Name: "DV errado", NIT: "900333444-9"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	nueva, err := uc.Create(ctx, superActor(), dto.CreateCompanyRequest{Name: "Nueva", NIT: "900333444"})
	require.NoError(t, err)
	assert.Equal(t, "900333444-0", nueva.NIT)

	otro := "900222333-5"
	_, err = uc.Update(ctx, superActor(), companyC1, dto.UpdateCompanyRequest{NIT: &otro})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	out, err := uc.List(ctx, c1Admin(), dto.CompanyFilter{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, companyC1, out.Items[0].ID)

	_, err = uc.GetByID(ctx, c1Admin(), companyC2)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Delete(ctx, superActor(), companyC2))
	c2, _ := repo.GetByID(ctx, companyC2)
	assert.False(t, c2.Active)
}
