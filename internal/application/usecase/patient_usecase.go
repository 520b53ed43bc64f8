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
	"github.com/jhoicas/Auditoria-api/pkg/textnorm"
)

// PatientUseCase registro compartido de pacientes (sin empresa).
type PatientUseCase struct {
	repo    repository.PatientRepository
	maxRows int
}

// NewPatientUseCase construye el caso de uso.
func NewPatientUseCase(repo repository.PatientRepository, maxRows int) *PatientUseCase {
	return &PatientUseCase{repo: repo, maxRows: maxRows}
}

// normalizeSex acepta M/F/I o la palabra completa.
func normalizeSex(s string) (string, bool) {
	switch textnorm.Key(s) {
	case "":
		return "", true
	case "m", "masculino", "hombre":
		return entity.SexMale, true
	case "f", "femenino", "mujer":
		return entity.SexFemale, true
	case "i", "indeterminado", "intersexual":
		return entity.SexIndeterminate, true
	}
	return "", false
}

// Create registra un paciente. (tipo, número) de documento repetido es domain.ErrDuplicate.
func (uc *PatientUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	now := time.Now()
	p := &entity.Patient{
		ID:             newID(),
		DocumentType:   strings.ToUpper(strings.TrimSpace(in.DocumentType)),
		DocumentNumber: strings.TrimSpace(in.DocumentNumber),
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Insurer:        strings.TrimSpace(in.Insurer),
		Regime:         strings.ToLower(strings.TrimSpace(in.Regime)),
		Phone:          strings.TrimSpace(in.Phone),
		Email:          strings.TrimSpace(in.Email),
		Address:        strings.TrimSpace(in.Address),
		Active:         true,
		CreatedBy:      actor.UserID,
		UpdatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.DocumentType == "" {
		p.DocumentType = entity.DocTypeCC
	}
	if err := setPatientDetails(p, in.BirthDate, in.Sex); err != nil {
		return nil, err
	}
	if err := validatePatient(p); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByDocument(ctx, p.DocumentType, p.DocumentNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	out := toPatientResponse(p)
	return &out, nil
}

func setPatientDetails(p *entity.Patient, birthDate, sex string) error {
	if strings.TrimSpace(birthDate) == "" {
		return invalidf("birthDate es requerido")
	}
	bd, err := parseDate("birthDate", birthDate)
	if err != nil {
		return err
	}
	if bd.After(time.Now()) {
		return invalidf("birthDate no puede ser futura")
	}
	p.BirthDate = bd
	s, ok := normalizeSex(sex)
	if !ok {
		return invalidf("sex %q no válido (M, F, I)", sex)
	}
	p.Sex = s
	return nil
}

func validatePatient(p *entity.Patient) error {
	switch {
	case p.DocumentNumber == "":
		return invalidf("documentNumber es requerido")
	case !entity.ValidDocumentType(p.DocumentType):
		return invalidf("documentType %q no válido", p.DocumentType)
	case p.FirstName == "" || p.LastName == "":
		return invalidf("firstName y lastName son requeridos")
	}
	return nil
}

// GetByID obtiene un paciente.
func (uc *PatientUseCase) GetByID(ctx context.Context, id string) (*dto.PatientResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toPatientResponse(p)
	return &out, nil
}

func (uc *PatientUseCase) get(ctx context.Context, id string) (*entity.Patient, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Update modifica los campos enviados.
func (uc *PatientUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldType, oldNumber := p.DocumentType, p.DocumentNumber
	trimPtr(&p.DocumentType, in.DocumentType)
	p.DocumentType = strings.ToUpper(p.DocumentType)
	trimPtr(&p.DocumentNumber, in.DocumentNumber)
	trimPtr(&p.FirstName, in.FirstName)
	trimPtr(&p.LastName, in.LastName)
	trimPtr(&p.Insurer, in.Insurer)
	trimPtr(&p.Regime, in.Regime)
	trimPtr(&p.Phone, in.Phone)
	trimPtr(&p.Email, in.Email)
	trimPtr(&p.Address, in.Address)
	if in.BirthDate != nil || in.Sex != nil {
		birth, sex := formatDate(p.BirthDate), p.Sex
		if in.BirthDate != nil {
			birth = *in.BirthDate
		}
		if in.Sex != nil {
			sex = *in.Sex
		}
		if err := setPatientDetails(p, birth, sex); err != nil {
			return nil, err
		}
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if err := validatePatient(p); err != nil {
		return nil, err
	}
	if p.DocumentType != oldType || p.DocumentNumber != oldNumber {
		existing, err := uc.repo.GetByDocument(ctx, p.DocumentType, p.DocumentNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != p.ID {
			return nil, domain.ErrDuplicate
		}
	}
	p.UpdatedBy = actor.UserID
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	out := toPatientResponse(p)
	return &out, nil
}

// Delete desactiva el paciente (borrado lógico).
func (uc *PatientUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	p, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	p.Active = false
	p.UpdatedBy = actor.UserID
	p.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, p)
}

// List lista pacientes.
func (uc *PatientUseCase) List(ctx context.Context, in dto.PatientFilter) (*dto.ListResponse[dto.PatientResponse], error) {
	in.DefaultPage()
	f := withActive(withSearch(repository.NewFilter(), in.Search), in.Active)
	if in.Insurer != "" {
		f = f.Where(repository.FieldInsurer, repository.OpILike, in.Insurer)
	}
	list, total, err := uc.repo.List(ctx, f, repository.Page{Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PatientResponse, 0, len(list))
	for _, p := range list {
		items = append(items, toPatientResponse(p))
	}
	return &dto.ListResponse[dto.PatientResponse]{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

var patientImportColumns = columnAliases{
	"documentType":   {"tipo documento", "tipo de documento", "tipo doc", "tipo identificacion"},
	"documentNumber": {"numero documento", "número de documento", "documento", "identificacion", "cedula"},
	"firstName":      {"nombres", "nombre", "first name"},
	"lastName":       {"apellidos", "apellido", "last name"},
	"birthDate":      {"fecha nacimiento", "fecha de nacimiento", "nacimiento"},
	"sex":            {"sexo", "genero"},
	"insurer":        {"eps", "aseguradora", "entidad"},
	"regime":         {"regimen"},
	"phone":          {"telefono", "celular"},
	"email":          {"correo", "correo electronico"},
	"address":        {"direccion"},
}

// Import crea pacientes desde una hoja.
func (uc *PatientUseCase) Import(ctx context.Context, actor access.Actor, rows [][]string) (*dto.ImportSummary, error) {
	return runImport(ctx, "patients", rows, uc.maxRows, patientImportColumns, func(ctx context.Context, row importRow) (string, error) {
		docType := row.get("documentType")
		if docType == "" {
			docType = entity.DocTypeCC
		}
		key := strings.ToUpper(docType) + " " + row.get("documentNumber")
		if err := requiredFields(row, "documentNumber", "firstName", "lastName", "birthDate"); err != nil {
			return key, err
		}
		_, err := uc.Create(ctx, actor, dto.CreatePatientRequest{
			DocumentType:   docType,
			DocumentNumber: row.get("documentNumber"),
			FirstName:      row.get("firstName"),
			LastName:       row.get("lastName"),
			BirthDate:      row.get("birthDate"),
			Sex:            row.get("sex"),
			Insurer:        row.get("insurer"),
			Regime:         row.get("regime"),
			Phone:          row.get("phone"),
			Email:          row.get("email"),
			Address:        row.get("address"),
		})
		return key, err
	})
}
