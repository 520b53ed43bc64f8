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
	"github.com/jhoicas/Auditoria-api/pkg/nit"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Create crea una nueva empresa. Solo un actor sin restricción de empresa puede crearlas.
// Devuelve domain.ErrDuplicate si el NIT ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if !actor.Scope.IsUnrestricted() {
		return nil, domain.ErrForbidden
	}
	in.Name, in.NIT = strings.TrimSpace(in.Name), strings.TrimSpace(in.NIT)
	if in.Name == "" || in.NIT == "" {
		return nil, invalidf("name y nit son requeridos")
	}
	canonical, err := nit.Normalize(in.NIT)
	if err != nil {
		return nil, invalidf("%v", err)
	}
	in.NIT = canonical
	existing, err := uc.repo.GetByNIT(ctx, in.NIT)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	company := &entity.Company{
		ID:        newID(),
		Name:      in.Name,
		NIT:       in.NIT,
		Address:   strings.TrimSpace(in.Address),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		Active:    true,
		CreatedBy: actor.UserID,
		UpdatedBy: actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	out := toCompanyResponse(company)
	return &out, nil
}

// GetByID obtiene una empresa visible para el actor.
func (uc *CompanyUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.CompanyResponse, error) {
	company, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := toCompanyResponse(company)
	return &out, nil
}

func (uc *CompanyUseCase) get(ctx context.Context, actor access.Actor, id string) (*entity.Company, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if err := requireCompany(actor, company.ID); err != nil {
		return nil, err
	}
	return company, nil
}

// Update modifica los campos enviados de la empresa.
func (uc *CompanyUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	trimPtr(&company.Name, in.Name)
	trimPtr(&company.NIT, in.NIT)
	trimPtr(&company.Address, in.Address)
	trimPtr(&company.Phone, in.Phone)
	trimPtr(&company.Email, in.Email)
	if in.Active != nil {
		company.Active = *in.Active
	}
	if company.Name == "" || company.NIT == "" {
		return nil, invalidf("name y nit no pueden quedar vacíos")
	}
	if in.NIT != nil {
		canonical, err := nit.Normalize(company.NIT)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		other, err := uc.repo.GetByNIT(ctx, canonical)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != company.ID {
			return nil, domain.ErrDuplicate
		}
		company.NIT = canonical
	}
	company.UpdatedBy = actor.UserID
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	out := toCompanyResponse(company)
	return &out, nil
}

// Delete desactiva la empresa (borrado lógico).
func (uc *CompanyUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	company, err := uc.get(ctx, actor, id)
	if err != nil {
		return err
	}
	company.Active = false
	company.UpdatedBy = actor.UserID
	company.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, company)
}

// List lista las empresas visibles para el actor.
func (uc *CompanyUseCase) List(ctx context.Context, actor access.Actor, in dto.CompanyFilter) (*dto.ListResponse[dto.CompanyResponse], error) {
	in.DefaultPage()
	f := withActive(withSearch(repository.NewFilter(), in.Search), in.Active)
	list, total, err := uc.repo.List(ctx, actor.Scope.Apply(f), repository.Page{Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, toCompanyResponse(c))
	}
	return &dto.ListResponse[dto.CompanyResponse]{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}
