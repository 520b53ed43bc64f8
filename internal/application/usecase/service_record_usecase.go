package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/cie11"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DiagnosisValidator valida un diagnóstico para un paciente en la fecha de prestación.
// Lo implementa *CIE11UseCase.
type DiagnosisValidator interface {
	ValidateForPatient(ctx context.Context, code string, patient *entity.Patient, at time.Time) (*entity.CIE11Code, error)
}

// ServiceRecordUseCase registro y auditoría de servicios prestados.
type ServiceRecordUseCase struct {
	repo        repository.ServiceRecordRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	companyRepo repository.CompanyRepository
	diagnoses   DiagnosisValidator
}

// NewServiceRecordUseCase construye el caso de uso.
func NewServiceRecordUseCase(
	repo repository.ServiceRecordRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	companyRepo repository.CompanyRepository,
	diagnoses DiagnosisValidator,
) *ServiceRecordUseCase {
	return &ServiceRecordUseCase{
		repo:        repo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		companyRepo: companyRepo,
		diagnoses:   diagnoses,
	}
}

// Create registra un servicio en estado pending. El diagnóstico principal y los relacionados
// deben existir, estar activos, ser facturables y aplicar a la edad y sexo del paciente.
func (uc *ServiceRecordUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateServiceRecordRequest) (*dto.ServiceRecordResponse, error) {
	now := time.Now()
	s := &entity.ServiceRecord{
		ID:                  newID(),
		CompanyID:           strings.TrimSpace(in.CompanyID),
		PatientID:           strings.TrimSpace(in.PatientID),
		DoctorID:            strings.TrimSpace(in.DoctorID),
		ServiceType:         strings.ToLower(strings.TrimSpace(in.ServiceType)),
		ProcedureCode:       strings.ToUpper(strings.TrimSpace(in.ProcedureCode)),
		Description:         strings.TrimSpace(in.Description),
		DiagnosisCode:       in.DiagnosisCode,
		RelatedDiagnoses:    in.RelatedDiagnoses,
		AuthorizationNumber: strings.TrimSpace(in.AuthorizationNumber),
		Quantity:            in.Quantity,
		UnitValue:           in.UnitValue,
		CopayValue:          in.CopayValue,
		Status:              entity.ServiceStatusPending,
		Active:              true,
		CreatedBy:           actor.UserID,
		UpdatedBy:           actor.UserID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if s.CompanyID == "" {
		return nil, invalidf("companyId es requerido")
	}
	if err := requireCompany(actor, s.CompanyID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ServiceDate) == "" {
		return nil, invalidf("serviceDate es requerido")
	}
	date, err := parseDate("serviceDate", in.ServiceDate)
	if err != nil {
		return nil, err
	}
	s.ServiceDate = date
	if s.ServiceType == "" {
		s.ServiceType = entity.ServiceTypeConsulta
	}
	if s.Quantity == 0 {
		s.Quantity = 1
	}
	if err := uc.validate(ctx, s); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	out := toServiceRecordResponse(s)
	return &out, nil
}

// validate comprueba referencias, valores y diagnósticos; recalcula TotalValue.
func (uc *ServiceRecordUseCase) validate(ctx context.Context, s *entity.ServiceRecord) error {
	if s.PatientID == "" || s.DoctorID == "" {
		return invalidf("patientId y doctorId son requeridos")
	}
	if s.ServiceDate.After(time.Now()) {
		return invalidf("serviceDate no puede ser futura")
	}
	if !entity.ValidServiceType(s.ServiceType) {
		return invalidf("serviceType %q no válido", s.ServiceType)
	}
	if s.Quantity < 1 {
		return invalidf("quantity debe ser mayor que cero")
	}
	if s.UnitValue.IsNegative() || s.CopayValue.IsNegative() {
		return invalidf("los valores no pueden ser negativos")
	}
	s.TotalValue = s.UnitValue.Mul(decimal.NewFromInt(int64(s.Quantity))).Round(2)
	if s.CopayValue.GreaterThan(s.TotalValue) {
		return invalidf("copayValue no puede superar el valor total")
	}

	company, err := uc.companyRepo.GetByID(ctx, s.CompanyID)
	if err != nil {
		return err
	}
	if company == nil || !company.Active {
		return invalidf("la empresa no existe o está inactiva")
	}
	patient, err := uc.loadPatient(ctx, s.PatientID)
	if err != nil {
		return err
	}
	doctor, err := uc.loadDoctor(ctx, s.DoctorID)
	if err != nil {
		return err
	}
	if doctor.CompanyID != s.CompanyID {
		return invalidf("el médico no pertenece a la empresa del servicio")
	}

	s.DiagnosisCode = cie11.NormalizeCode(s.DiagnosisCode)
	if s.DiagnosisCode == "" {
		return invalidf("diagnosisCode es requerido")
	}
	if _, err := uc.diagnoses.ValidateForPatient(ctx, s.DiagnosisCode, patient, s.ServiceDate); err != nil {
		return err
	}
	related := make([]string, 0, len(s.RelatedDiagnoses))
	seen := map[string]bool{s.DiagnosisCode: true}
	for _, code := range s.RelatedDiagnoses {
		code = cie11.NormalizeCode(code)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		if _, err := uc.diagnoses.ValidateForPatient(ctx, code, patient, s.ServiceDate); err != nil {
			return err
		}
		related = append(related, code)
	}
	s.RelatedDiagnoses = related
	return nil
}

func (uc *ServiceRecordUseCase) loadPatient(ctx context.Context, id string) (*entity.Patient, error) {
	if !validID(id) {
		return nil, invalidf("el paciente no existe")
	}
	p, err := uc.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Active {
		return nil, invalidf("el paciente no existe o está inactivo")
	}
	return p, nil
}

func (uc *ServiceRecordUseCase) loadDoctor(ctx context.Context, id string) (*entity.Doctor, error) {
	if !validID(id) {
		return nil, invalidf("el médico no existe")
	}
	d, err := uc.doctorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil || !d.Active {
		return nil, invalidf("el médico no existe o está inactivo")
	}
	return d, nil
}

// GetByID obtiene un servicio de una empresa del alcance del actor. Los desactivados no existen.
func (uc *ServiceRecordUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.ServiceRecordResponse, error) {
	s, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := toServiceRecordResponse(s)
	return &out, nil
}

func (uc *ServiceRecordUseCase) get(ctx context.Context, actor access.Actor, id string) (*entity.ServiceRecord, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil || !s.Active {
		return nil, domain.ErrNotFound
	}
	if err := requireCompany(actor, s.CompanyID); err != nil {
		return nil, err
	}
	return s, nil
}

// Update modifica un servicio no prefacturado. Un servicio ya auditado vuelve a pending.
func (uc *ServiceRecordUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateServiceRecordRequest) (*dto.ServiceRecordResponse, error) {
	s, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !s.Editable() {
		return nil, domain.ErrConflict
	}
	trimPtr(&s.PatientID, in.PatientID)
	trimPtr(&s.DoctorID, in.DoctorID)
	if in.ServiceDate != nil {
		if s.ServiceDate, err = parseDate("serviceDate", *in.ServiceDate); err != nil {
			return nil, err
		}
	}
	if in.ServiceType != nil {
		s.ServiceType = strings.ToLower(strings.TrimSpace(*in.ServiceType))
	}
	if in.ProcedureCode != nil {
		s.ProcedureCode = strings.ToUpper(strings.TrimSpace(*in.ProcedureCode))
	}
	trimPtr(&s.Description, in.Description)
	if in.DiagnosisCode != nil {
		s.DiagnosisCode = *in.DiagnosisCode
	}
	if in.RelatedDiagnoses != nil {
		s.RelatedDiagnoses = *in.RelatedDiagnoses
	}
	trimPtr(&s.AuthorizationNumber, in.AuthorizationNumber)
	if in.Quantity != nil {
		s.Quantity = *in.Quantity
	}
	if in.UnitValue != nil {
		s.UnitValue = *in.UnitValue
	}
	if in.CopayValue != nil {
		s.CopayValue = *in.CopayValue
	}
	if err := uc.validate(ctx, s); err != nil {
		return nil, err
	}
	s.Status = entity.ServiceStatusPending
	s.ObjectedValue = decimal.Zero
	s.AuditNotes = ""
	s.AuditedBy = ""
	s.AuditedAt = nil
	s.UpdatedBy = actor.UserID
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	out := toServiceRecordResponse(s)
	return &out, nil
}

// Audit registra el resultado de la auditoría: approved, u objected con un valor glosado
// mayor que cero y no superior al total.
func (uc *ServiceRecordUseCase) Audit(ctx context.Context, actor access.Actor, id string, in dto.AuditServiceRecordRequest) (*dto.ServiceRecordResponse, error) {
	s, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !s.Editable() {
		return nil, domain.ErrConflict
	}
	notes := strings.TrimSpace(in.Notes)
	switch in.Status {
	case entity.ServiceStatusApproved:
		s.ObjectedValue = decimal.Zero
	case entity.ServiceStatusObjected:
		if !in.ObjectedValue.IsPositive() || in.ObjectedValue.GreaterThan(s.TotalValue) {
			return nil, invalidf("objectedValue debe ser mayor que cero y no superar el valor total")
		}
		if notes == "" {
			return nil, invalidf("notes es requerido para glosar")
		}
		s.ObjectedValue = in.ObjectedValue.Round(2)
	default:
		return nil, invalidf("status debe ser approved u objected")
	}
	now := time.Now()
	s.Status = in.Status
	s.AuditNotes = notes
	s.AuditedBy = actor.UserID
	s.AuditedAt = &now
	s.UpdatedBy = actor.UserID
	s.UpdatedAt = now
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	out := toServiceRecordResponse(s)
	return &out, nil
}

// Delete desactiva un servicio no prefacturado.
func (uc *ServiceRecordUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	s, err := uc.get(ctx, actor, id)
	if err != nil {
		return err
	}
	if !s.Editable() {
		return domain.ErrConflict
	}
	s.Active = false
	s.UpdatedBy = actor.UserID
	s.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, s)
}

// List lista servicios de las empresas visibles para el actor.
func (uc *ServiceRecordUseCase) List(ctx context.Context, actor access.Actor, in dto.ServiceRecordFilter) (*dto.ListResponse[dto.ServiceRecordResponse], error) {
	in.DefaultPage()
	f, err := serviceFilter(in)
	if err != nil {
		return nil, err
	}
	f, err = companyFilter(actor, f, in.CompanyID)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, f, repository.Page{Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ServiceRecordResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toServiceRecordResponse(s))
	}
	return &dto.ListResponse[dto.ServiceRecordResponse]{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

func serviceFilter(in dto.ServiceRecordFilter) (repository.Filter, error) {
	f := withSearch(repository.NewFilter().Eq(repository.FieldActive, true), in.Search)
	for _, id := range []string{in.PatientID, in.DoctorID} {
		if id != "" && !validID(id) {
			return f, invalidf("id de paciente o médico inválido")
		}
	}
	if in.PatientID != "" {
		f = f.Eq(repository.FieldPatient, in.PatientID)
	}
	if in.DoctorID != "" {
		f = f.Eq(repository.FieldDoctor, in.DoctorID)
	}
	if in.Status != "" {
		f = f.Eq(repository.FieldStatus, in.Status)
	}
	if in.ServiceType != "" {
		f = f.Eq(repository.FieldServiceType, in.ServiceType)
	}
	if in.DiagnosisCode != "" {
		f = f.Eq(repository.FieldDiagnosis, cie11.NormalizeCode(in.DiagnosisCode))
	}
	if in.Insurer != "" {
		f = f.Where(repository.FieldInsurer, repository.OpILike, in.Insurer)
	}
	if in.From != "" {
		from, err := parseDate("from", in.From)
		if err != nil {
			return f, err
		}
		f = f.Where(repository.FieldDateFrom, repository.OpGte, from)
	}
	if in.To != "" {
		to, err := parseDate("to", in.To)
		if err != nil {
			return f, err
		}
		f = f.Where(repository.FieldDateTo, repository.OpLte, to)
	}
	return f, nil
}
