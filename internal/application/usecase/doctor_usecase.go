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
)

// DoctorUseCase registro de médicos por empresa.
type DoctorUseCase struct {
	repo        repository.DoctorRepository
	companyRepo repository.CompanyRepository
	maxRows     int
}

// NewDoctorUseCase construye el caso de uso. maxRows limita la carga masiva (0 = valor por defecto).
func NewDoctorUseCase(repo repository.DoctorRepository, companyRepo repository.CompanyRepository, maxRows int) *DoctorUseCase {
	return &DoctorUseCase{repo: repo, companyRepo: companyRepo, maxRows: maxRows}
}

// Create registra un médico en una empresa del alcance del actor.
// Tarjeta profesional repetida es domain.ErrDuplicate.
func (uc *DoctorUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	now := time.Now()
	d := &entity.Doctor{
		ID:               newID(),
		CompanyID:        strings.TrimSpace(in.CompanyID),
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		DocumentType:     strings.ToUpper(strings.TrimSpace(in.DocumentType)),
		DocumentNumber:   strings.TrimSpace(in.DocumentNumber),
		ProfessionalCard: strings.TrimSpace(in.ProfessionalCard),
		Specialty:        strings.TrimSpace(in.Specialty),
		Email:            strings.TrimSpace(in.Email),
		Phone:            strings.TrimSpace(in.Phone),
		Active:           true,
		CreatedBy:        actor.UserID,
		UpdatedBy:        actor.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if d.DocumentType == "" {
		d.DocumentType = entity.DocTypeCC
	}
	if err := uc.validate(ctx, actor, d); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByProfessionalCard(ctx, d.ProfessionalCard)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	out := toDoctorResponse(d)
	return &out, nil
}

func (uc *DoctorUseCase) validate(ctx context.Context, actor access.Actor, d *entity.Doctor) error {
	switch {
	case d.CompanyID == "":
		return invalidf("companyId es requerido")
	case d.FirstName == "" || d.LastName == "":
		return invalidf("firstName y lastName son requeridos")
	case d.DocumentNumber == "":
		return invalidf("documentNumber es requerido")
	case d.ProfessionalCard == "":
		return invalidf("professionalCard es requerido")
	case !entity.ValidDocumentType(d.DocumentType):
		return invalidf("documentType %q no válido", d.DocumentType)
	}
	if err := requireCompany(actor, d.CompanyID); err != nil {
		return err
	}
	if !validID(d.CompanyID) {
		return invalidf("la empresa %q no existe", d.CompanyID)
	}
	company, err := uc.companyRepo.GetByID(ctx, d.CompanyID)
	if err != nil {
		return err
	}
	if company == nil || !company.Active {
		return invalidf("la empresa %q no existe o está inactiva", d.CompanyID)
	}
	return nil
}

// GetByID obtiene un médico de una empresa del alcance del actor.
func (uc *DoctorUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.DoctorResponse, error) {
	d, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := toDoctorResponse(d)
	return &out, nil
}

func (uc *DoctorUseCase) get(ctx context.Context, actor access.Actor, id string) (*entity.Doctor, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if err := requireCompany(actor, d.CompanyID); err != nil {
		return nil, err
	}
	return d, nil
}

// Update modifica los campos enviados. Mover el médico de empresa exige alcance sobre la nueva.
func (uc *DoctorUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	d, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	oldCard := d.ProfessionalCard
	trimPtr(&d.CompanyID, in.CompanyID)
	trimPtr(&d.FirstName, in.FirstName)
	trimPtr(&d.LastName, in.LastName)
	trimPtr(&d.DocumentType, in.DocumentType)
	d.DocumentType = strings.ToUpper(d.DocumentType)
	trimPtr(&d.DocumentNumber, in.DocumentNumber)
	trimPtr(&d.ProfessionalCard, in.ProfessionalCard)
	trimPtr(&d.Specialty, in.Specialty)
	trimPtr(&d.Email, in.Email)
	trimPtr(&d.Phone, in.Phone)
	if in.Active != nil {
		d.Active = *in.Active
	}
	if err := uc.validate(ctx, actor, d); err != nil {
		return nil, err
	}
	if d.ProfessionalCard != oldCard {
		existing, err := uc.repo.GetByProfessionalCard(ctx, d.ProfessionalCard)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != d.ID {
			return nil, domain.ErrDuplicate
		}
	}
	d.UpdatedBy = actor.UserID
	d.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	out := toDoctorResponse(d)
	return &out, nil
}

// Delete desactiva el médico (borrado lógico).
func (uc *DoctorUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	d, err := uc.get(ctx, actor, id)
	if err != nil {
		return err
	}
	d.Active = false
	d.UpdatedBy = actor.UserID
	d.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, d)
}

// List lista médicos de las empresas visibles para el actor.
func (uc *DoctorUseCase) List(ctx context.Context, actor access.Actor, in dto.DoctorFilter) (*dto.ListResponse[dto.DoctorResponse], error) {
	in.DefaultPage()
	f := withActive(withSearch(repository.NewFilter(), in.Search), in.Active)
	if in.Specialty != "" {
		f = f.Where(repository.FieldSpecialty, repository.OpILike, in.Specialty)
	}
	f, err := companyFilter(actor, f, in.CompanyID)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, f, repository.Page{Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.DoctorResponse, 0, len(list))
	for _, d := range list {
		items = append(items, toDoctorResponse(d))
	}
	return &dto.ListResponse[dto.DoctorResponse]{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

var doctorImportColumns = columnAliases{
	"companyId":        {"empresa", "company", "id empresa"},
	"firstName":        {"nombres", "nombre", "first name"},
	"lastName":         {"apellidos", "apellido", "last name"},
	"documentType":     {"tipo documento", "tipo de documento", "tipo doc"},
	"documentNumber":   {"numero documento", "número de documento", "documento", "cedula", "identificacion"},
	"professionalCard": {"tarjeta profesional", "registro medico", "tp"},
	"specialty":        {"especialidad"},
	"email":            {"correo", "correo electronico"},
	"phone":            {"telefono", "celular"},
}

// Import crea médicos desde una hoja. defaultCompanyID se usa en filas sin columna de empresa.
func (uc *DoctorUseCase) Import(ctx context.Context, actor access.Actor, defaultCompanyID string, rows [][]string) (*dto.ImportSummary, error) {
	return runImport(ctx, "doctors", rows, uc.maxRows, doctorImportColumns, func(ctx context.Context, row importRow) (string, error) {
		key := row.get("professionalCard")
		if err := requiredFields(row, "firstName", "lastName", "documentNumber", "professionalCard"); err != nil {
			return key, err
		}
		companyID := row.get("companyId")
		if companyID == "" {
			companyID = defaultCompanyID
		}
		_, err := uc.Create(ctx, actor, dto.CreateDoctorRequest{
			CompanyID:        companyID,
			FirstName:        row.get("firstName"),
			LastName:         row.get("lastName"),
			DocumentType:     row.get("documentType"),
			DocumentNumber:   row.get("documentNumber"),
			ProfessionalCard: key,
			Specialty:        row.get("specialty"),
			Email:            row.get("email"),
			Phone:            row.get("phone"),
		})
		return key, err
	})
}
