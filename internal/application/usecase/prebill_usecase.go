package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
	"github.com/rs/zerolog/log"
)

// PreBillTxRunner ejecuta una función dentro de una transacción con los repos de
// prefacturas y servicios.
type PreBillTxRunner interface {
	RunPreBill(ctx context.Context, fn func(
		preBillRepo repository.PreBillRepository,
		serviceRepo repository.ServiceRecordRepository,
	) error) error
}

// PreBillLine servicio de la prefactura con los nombres resueltos para el documento.
type PreBillLine struct {
	Service         *entity.ServiceRecord
	PatientName     string
	PatientDocument string
	DoctorName      string
}

// PreBillPDFGenerator genera la representación PDF de una prefactura.
type PreBillPDFGenerator interface {
	GeneratePreBillPDF(ctx context.Context, preBill *entity.PreBill, company *entity.Company, lines []PreBillLine) ([]byte, error)
}

// PreBillUseCase generación y ciclo de vida de prefacturas.
type PreBillUseCase struct {
	tx          PreBillTxRunner
	repo        repository.PreBillRepository
	serviceRepo repository.ServiceRecordRepository
	companyRepo repository.CompanyRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	pdf         PreBillPDFGenerator
	now         func() time.Time
}

// NewPreBillUseCase construye el caso de uso. pdf puede ser nil (PDF deshabilitado).
func NewPreBillUseCase(
	tx PreBillTxRunner,
	repo repository.PreBillRepository,
	serviceRepo repository.ServiceRecordRepository,
	companyRepo repository.CompanyRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	pdf PreBillPDFGenerator,
) *PreBillUseCase {
	return &PreBillUseCase{
		tx:          tx,
		repo:        repo,
		serviceRepo: serviceRepo,
		companyRepo: companyRepo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		pdf:         pdf,
		now:         time.Now,
	}
}

// FormatPreBillNumber formatea el consecutivo de la empresa: 1 → PF-000001.
func FormatPreBillNumber(n int64) string {
	return fmt.Sprintf("PF-%06d", n)
}

// Generate crea una prefactura en borrador con los servicios auditados (approved u objected),
// activos y no prefacturados de la empresa en el periodo. Si no hay servicios retorna
// ErrNothingToBill.
func (uc *PreBillUseCase) Generate(ctx context.Context, actor access.Actor, in dto.GeneratePreBillRequest) (*dto.PreBillResponse, error) {
	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		return nil, invalidf("companyId es requerido")
	}
	if !validID(companyID) {
		return nil, invalidf("companyId inválido")
	}
	if err := requireCompany(actor, companyID); err != nil {
		return nil, err
	}
	start, err := parseDate("periodStart", in.PeriodStart)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("periodEnd", in.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, invalidf("periodEnd no puede ser anterior a periodStart")
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil || !company.Active {
		return nil, fmt.Errorf("%w: empresa", domain.ErrNotFound)
	}

	now := uc.now()
	pb := &entity.PreBill{
		ID:          newID(),
		CompanyID:   companyID,
		PeriodStart: start,
		PeriodEnd:   end,
		Insurer:     strings.TrimSpace(in.Insurer),
		Status:      entity.PreBillStatusDraft,
		Notes:       strings.TrimSpace(in.Notes),
		Active:      true,
		CreatedBy:   actor.UserID,
		UpdatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	f := repository.NewFilter().
		Eq(repository.FieldCompany, companyID).
		Eq(repository.FieldActive, true).
		In(repository.FieldStatus, []string{entity.ServiceStatusApproved, entity.ServiceStatusObjected}).
		Where(repository.FieldPreBill, repository.OpIsNull, true).
		Eq(repository.FieldObjectedBelow, true).
		Where(repository.FieldDateFrom, repository.OpGte, start).
		Where(repository.FieldDateTo, repository.OpLte, end)
	if pb.Insurer != "" {
		f = f.Eq(repository.FieldInsurer, pb.Insurer)
	}

	var items []*entity.ServiceRecord
	err = uc.tx.RunPreBill(ctx, func(preBills repository.PreBillRepository, services repository.ServiceRecordRepository) error {
		records, err := services.ListForUpdate(ctx, f)
		if err != nil {
			return err
		}
		items = items[:0]
		for _, s := range records {
			if s.Billable() {
				items = append(items, s)
			}
		}
		if len(items) == 0 {
			return domain.ErrNothingToBill
		}
		n, err := preBills.NextNumber(ctx, companyID)
		if err != nil {
			return err
		}
		pb.Number = FormatPreBillNumber(n)
		pb.ComputeTotals(items)
		if err := preBills.Create(ctx, pb); err != nil {
			return err
		}
		ids := make([]string, len(items))
		for i, s := range items {
			ids[i] = s.ID
		}
		return services.AttachToPreBill(ctx, ids, pb.ID, actor.UserID, now)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("prebill", pb.Number).
		Str("company", companyID).
		Int("items", pb.ItemCount).
		Str("net_total", pb.NetTotal.StringFixed(2)).
		Msg("prefactura generada")

	id := pb.ID
	out := toPreBillResponse(pb)
	out.Items = make([]dto.ServiceRecordResponse, len(items))
	for i, s := range items {
		s.PreBillID = &id
		s.Status = entity.ServiceStatusBilled
		out.Items[i] = toServiceRecordResponse(s)
	}
	return &out, nil
}

// load obtiene la prefactura y verifica el alcance del actor.
func (uc *PreBillUseCase) load(ctx context.Context, actor access.Actor, id string) (*entity.PreBill, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	pb, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pb == nil {
		return nil, domain.ErrNotFound
	}
	if err := requireCompany(actor, pb.CompanyID); err != nil {
		return nil, err
	}
	return pb, nil
}

// GetByID retorna la prefactura con sus servicios.
func (uc *PreBillUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.PreBillResponse, error) {
	pb, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.serviceRepo.ListByPreBill(ctx, pb.ID)
	if err != nil {
		return nil, err
	}
	out := toPreBillResponse(pb)
	out.Items = make([]dto.ServiceRecordResponse, len(items))
	for i, s := range items {
		out.Items[i] = toServiceRecordResponse(s)
	}
	return &out, nil
}

// Issue pasa una prefactura de draft a issued.
func (uc *PreBillUseCase) Issue(ctx context.Context, actor access.Actor, id string) (*dto.PreBillResponse, error) {
	pb, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if pb.Status != entity.PreBillStatusDraft {
		return nil, fmt.Errorf("%w: la prefactura está en estado %s", domain.ErrConflict, pb.Status)
	}
	now := uc.now()
	pb.Status = entity.PreBillStatusIssued
	pb.IssuedAt = &now
	pb.UpdatedBy = actor.UserID
	pb.UpdatedAt = now
	if err := uc.repo.Transition(ctx, pb, entity.PreBillStatusDraft); err != nil {
		return nil, err
	}
	log.Info().Str("prebill", pb.Number).Str("user", actor.UserID).Msg("prefactura emitida")
	out := toPreBillResponse(pb)
	return &out, nil
}

// Cancel anula una prefactura en borrador y libera sus servicios a su estado de auditoría.
// El cambio de estado y la liberación van en la misma transacción: si un Issue concurrente
// ganó, Transition falla y los servicios siguen prefacturados.
func (uc *PreBillUseCase) Cancel(ctx context.Context, actor access.Actor, id string) (*dto.PreBillResponse, error) {
	pb, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if pb.Status != entity.PreBillStatusDraft {
		return nil, fmt.Errorf("%w: solo se anulan prefacturas en borrador (estado %s)", domain.ErrConflict, pb.Status)
	}
	now := uc.now()
	pb.Status = entity.PreBillStatusCancelled
	pb.CancelledAt = &now
	pb.UpdatedBy = actor.UserID
	pb.UpdatedAt = now
	err = uc.tx.RunPreBill(ctx, func(preBills repository.PreBillRepository, services repository.ServiceRecordRepository) error {
		if err := preBills.Transition(ctx, pb, entity.PreBillStatusDraft); err != nil {
			return err
		}
		return services.ReleaseFromPreBill(ctx, pb.ID, actor.UserID, now)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("prebill", pb.Number).Str("user", actor.UserID).Msg("prefactura anulada")
	out := toPreBillResponse(pb)
	return &out, nil
}

// List prefacturas visibles para el actor.
func (uc *PreBillUseCase) List(ctx context.Context, actor access.Actor, in dto.PreBillFilter) (*dto.ListResponse[dto.PreBillResponse], error) {
	f := repository.NewFilter().Eq(repository.FieldActive, true)
	if s := strings.TrimSpace(in.Status); s != "" {
		f = f.Eq(repository.FieldStatus, strings.ToLower(s))
	}
	if s := strings.TrimSpace(in.Insurer); s != "" {
		f = f.Eq(repository.FieldInsurer, s)
	}
	f = withSearch(f, in.Search)
	f, err := companyFilter(actor, f, strings.TrimSpace(in.CompanyID))
	if err != nil {
		return nil, err
	}
	page := repository.Page{Limit: in.Limit, Offset: in.Offset}.Normalize()
	list, total, err := uc.repo.List(ctx, f, page)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PreBillResponse, len(list))
	for i, pb := range list {
		items[i] = toPreBillResponse(pb)
	}
	return &dto.ListResponse[dto.PreBillResponse]{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// PDF genera el documento de la prefactura. Retorna los bytes y el nombre de archivo.
func (uc *PreBillUseCase) PDF(ctx context.Context, actor access.Actor, id string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", errors.New("prebill: generador PDF no configurado")
	}
	pb, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	if pb.Status == entity.PreBillStatusCancelled {
		return nil, "", fmt.Errorf("%w: la prefactura está anulada", domain.ErrConflict)
	}
	company, err := uc.companyRepo.GetByID(ctx, pb.CompanyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", fmt.Errorf("pdf: empresa %s: %w", pb.CompanyID, domain.ErrNotFound)
	}
	items, err := uc.serviceRepo.ListByPreBill(ctx, pb.ID)
	if err != nil {
		return nil, "", err
	}

	patients := map[string]*entity.Patient{}
	doctors := map[string]*entity.Doctor{}
	lines := make([]PreBillLine, 0, len(items))
	for _, s := range items {
		line := PreBillLine{Service: s}
		p, ok := patients[s.PatientID]
		if !ok {
			if p, err = uc.patientRepo.GetByID(ctx, s.PatientID); err != nil {
				return nil, "", fmt.Errorf("pdf: obtener paciente: %w", err)
			}
			patients[s.PatientID] = p
		}
		if p != nil {
			line.PatientName = p.FullName()
			line.PatientDocument = p.DocumentType + " " + p.DocumentNumber
		}
		d, ok := doctors[s.DoctorID]
		if !ok {
			if d, err = uc.doctorRepo.GetByID(ctx, s.DoctorID); err != nil {
				return nil, "", fmt.Errorf("pdf: obtener médico: %w", err)
			}
			doctors[s.DoctorID] = d
		}
		if d != nil {
			line.DoctorName = d.FullName()
		}
		lines = append(lines, line)
	}

	doc, err := uc.pdf.GeneratePreBillPDF(ctx, pb, company, lines)
	if err != nil {
		return nil, "", err
	}
	return doc, fmt.Sprintf("prefactura-%s.pdf", pb.Number), nil
}
