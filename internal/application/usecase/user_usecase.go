package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 8

// UserUseCase administración de usuarios y de su perfil de acceso.
type UserUseCase struct {
	repo        repository.UserRepository
	companyRepo repository.CompanyRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, companyRepo repository.CompanyRepository) *UserUseCase {
	return &UserUseCase{repo: repo, companyRepo: companyRepo}
}

// HashPassword genera el hash bcrypt de una contraseña válida.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", invalidf("la contraseña debe tener al menos %d caracteres", MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Create crea un usuario. El actor solo puede asignar empresas de su propio alcance;
// el rol superadmin y la vista de todas las empresas requieren un actor sin restricción.
func (uc *UserUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" {
		return nil, invalidf("name y email son requeridos")
	}
	if !strings.Contains(in.Email, "@") {
		return nil, invalidf("email inválido")
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           newID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Active:       true,
		CreatedBy:    actor.UserID,
		UpdatedBy:    actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := accessProfile{
		role:         in.Role,
		companies:    in.AssignedCompanies,
		viewAll:      in.CanViewAllCompanies,
		permissions:  in.CustomPermissions,
		setCompanies: true, setViewAll: true, setPermissions: true,
	}
	if err := uc.applyProfile(ctx, actor, user, profile); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	out := ToUserResponse(user)
	return &out, nil
}

// GetByID obtiene un usuario visible para el actor.
func (uc *UserUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := ToUserResponse(user)
	return &out, nil
}

func (uc *UserUseCase) get(ctx context.Context, actor access.Actor, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, domain.ErrUserNotFound
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !userVisible(actor, user) {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

// userVisible: el propio usuario, o alguna empresa asignada dentro del alcance del actor.
// Los usuarios con vista global solo los ve un actor sin restricción.
func userVisible(actor access.Actor, u *entity.User) bool {
	if actor.Scope.IsUnrestricted() || actor.UserID == u.ID {
		return true
	}
	if u.CanViewAllCompanies || u.Role == entity.RoleSuperAdmin {
		return false
	}
	for _, c := range u.AssignedCompanies {
		if actor.Scope.Allows(c) {
			return true
		}
	}
	return false
}

// Update modifica los campos enviados. Cambiar el perfil de acceso sigue las mismas reglas que Create.
func (uc *UserUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if user.Role == entity.RoleSuperAdmin && !actor.IsSuperAdmin() {
		return nil, domain.ErrForbidden
	}
	trimPtr(&user.Name, in.Name)
	if in.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
		if !strings.Contains(user.Email, "@") {
			return nil, invalidf("email inválido")
		}
		existing, err := uc.repo.GetByEmail(ctx, user.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, domain.ErrEmailAlreadyExists
		}
	}
	if user.Name == "" {
		return nil, invalidf("name no puede quedar vacío")
	}
	if in.Password != nil {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if in.Active != nil {
		if !*in.Active && user.ID == actor.UserID {
			return nil, domain.ErrConflict
		}
		user.Active = *in.Active
	}

	profile := accessProfile{role: user.Role}
	if in.Role != nil {
		profile.role = *in.Role
	}
	if in.AssignedCompanies != nil {
		profile.companies, profile.setCompanies = *in.AssignedCompanies, true
	}
	if in.CanViewAllCompanies != nil {
		profile.viewAll, profile.setViewAll = *in.CanViewAllCompanies, true
	}
	if in.CustomPermissions != nil {
		profile.permissions, profile.setPermissions = *in.CustomPermissions, true
	}
	if in.Role != nil || profile.setCompanies || profile.setViewAll || profile.setPermissions {
		// nadie amplía ni modifica su propio perfil de acceso
		if user.ID == actor.UserID && (profile.role != user.Role || profile.setCompanies || profile.setViewAll || profile.setPermissions) {
			return nil, domain.ErrForbidden
		}
		if err := uc.applyProfile(ctx, actor, user, profile); err != nil {
			return nil, err
		}
	}

	user.UpdatedBy = actor.UserID
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	out := ToUserResponse(user)
	return &out, nil
}

// Delete desactiva el usuario. Un usuario no puede desactivarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	active := false
	_, err := uc.Update(ctx, actor, id, dto.UpdateUserRequest{Active: &active})
	return err
}

// Unlock quita el bloqueo por intentos fallidos.
func (uc *UserUseCase) Unlock(ctx context.Context, actor access.Actor, id string) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := uc.repo.Unlock(ctx, user.ID, actor.UserID, now); err != nil {
		return nil, err
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.UpdatedBy = actor.UserID
	user.UpdatedAt = now
	out := ToUserResponse(user)
	return &out, nil
}

// List lista los usuarios visibles para el actor.
func (uc *UserUseCase) List(ctx context.Context, actor access.Actor, in dto.UserFilter) (*dto.ListResponse[dto.UserResponse], error) {
	in.DefaultPage()
	f := withActive(withSearch(repository.NewFilter(), in.Search), in.Active)
	if in.Role != "" {
		f = f.Eq(repository.FieldRole, in.Role)
	}
	list, total, err := uc.repo.List(ctx, actor.Scope.Apply(f), repository.Page{Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, ToUserResponse(u))
	}
	return &dto.ListResponse[dto.UserResponse]{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

type accessProfile struct {
	role           string
	companies      []string
	viewAll        bool
	permissions    []dto.PermissionDTO
	setCompanies   bool
	setViewAll     bool
	setPermissions bool
}

// applyProfile valida y asigna rol, empresas, vista global y permisos personalizados.
// Un permiso personalizado solo puede conceder pares (módulo, acción) que el actor ya tiene.
func (uc *UserUseCase) applyProfile(ctx context.Context, actor access.Actor, u *entity.User, p accessProfile) error {
	if !entity.ValidRole(p.role) {
		return invalidf("rol %q no válido", p.role)
	}
	if p.role == entity.RoleSuperAdmin && !actor.IsSuperAdmin() {
		return domain.ErrForbidden
	}
	u.Role = p.role

	if p.setViewAll {
		if p.viewAll && !actor.Scope.IsUnrestricted() {
			return domain.ErrForbidden
		}
		u.CanViewAllCompanies = p.viewAll
	}
	if u.Role == entity.RoleSuperAdmin {
		u.CanViewAllCompanies = true
	}

	if p.setCompanies {
		companies := access.Companies(p.companies...).CompanyIDs()
		for _, id := range companies {
			if err := requireCompany(actor, id); err != nil {
				return err
			}
			if !validID(id) {
				return invalidf("empresa %q no existe", id)
			}
			c, err := uc.companyRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if c == nil {
				return invalidf("empresa %q no existe", id)
			}
		}
		u.AssignedCompanies = companies
	}

	if p.setPermissions {
		perms := make([]entity.Permission, 0, len(p.permissions))
		for _, in := range p.permissions {
			perm := entity.Permission{Module: in.Module, Actions: in.Actions}
			if !access.ValidPermission(perm) {
				return invalidf("permiso inválido para el módulo %q", in.Module)
			}
			for _, a := range perm.Actions {
				if !actor.Can(perm.Module, a) {
					return domain.ErrForbidden
				}
			}
			perms = append(perms, perm)
		}
		u.CustomPermissions = perms
	}
	return nil
}
