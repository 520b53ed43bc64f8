package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
)

var _ repository.ServiceRecordRepository = (*ServiceRecordRepo)(nil)

var serviceColumns = columns{
	repository.FieldID:            {expr: "s.id"},
	repository.FieldCompany:       {expr: "s.company_id"},
	repository.FieldActive:        {expr: "s.active"},
	repository.FieldStatus:        {expr: "s.status"},
	repository.FieldPatient:       {expr: "s.patient_id"},
	repository.FieldDoctor:        {expr: "s.doctor_id"},
	repository.FieldDiagnosis:     {expr: "s.diagnosis_code"},
	repository.FieldServiceType:   {expr: "s.service_type"},
	repository.FieldDateFrom:      {expr: "s.service_date"},
	repository.FieldDateTo:        {expr: "s.service_date"},
	repository.FieldPreBill:       {expr: "s.prebill_id"},
	repository.FieldObjectedBelow: {pred: "s.objected_value < s.total_value"},
	repository.FieldInsurer:       {expr: "(SELECT p.insurer FROM patients p WHERE p.id = s.patient_id)"},
	repository.FieldSearch: {search: []string{
		"s.authorization_number", "s.procedure_code", "s.description", "s.diagnosis_code",
	}},
}

const serviceSelect = `
	SELECT s.id, s.company_id, s.patient_id, s.doctor_id, s.service_date, s.service_type, s.procedure_code,
	       s.description, s.diagnosis_code, s.related_diagnoses, s.authorization_number, s.quantity,
	       s.unit_value, s.total_value, s.copay_value, s.status, s.audit_notes, s.objected_value,
	       s.audited_by, s.audited_at, s.prebill_id, s.active,
	       s.created_by, s.updated_by, s.created_at, s.updated_at
	FROM service_records s`

// ServiceRecordRepo implementación de ServiceRecordRepository (usable con pool o tx).
type ServiceRecordRepo struct {
	q Querier
}

// NewServiceRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceRecordRepository(q Querier) *ServiceRecordRepo {
	return &ServiceRecordRepo{q: q}
}

// Create persiste un servicio prestado.
func (r *ServiceRecordRepo) Create(ctx context.Context, s *entity.ServiceRecord) error {
	query := `
		INSERT INTO service_records (id, company_id, patient_id, doctor_id, service_date, service_type,
			procedure_code, description, diagnosis_code, related_diagnoses, authorization_number, quantity,
			unit_value, total_value, copay_value, status, audit_notes, objected_value, audited_by, audited_at,
			prebill_id, active, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.PatientID, s.DoctorID, s.ServiceDate, s.ServiceType,
		s.ProcedureCode, s.Description, s.DiagnosisCode, nonNil(s.RelatedDiagnoses), s.AuthorizationNumber, s.Quantity,
		s.UnitValue, s.TotalValue, s.CopayValue, s.Status, s.AuditNotes, s.ObjectedValue, s.AuditedBy, s.AuditedAt,
		s.PreBillID, s.Active, s.CreatedBy, s.UpdatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert service record: %w", err)
	}
	return nil
}

// GetByID obtiene un servicio por ID.
func (r *ServiceRecordRepo) GetByID(ctx context.Context, id string) (*entity.ServiceRecord, error) {
	s, err := scanServiceRecord(r.q.QueryRow(ctx, serviceSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service record: %w", err)
	}
	return s, nil
}

// Update actualiza los datos clínicos, de valores y de auditoría del servicio. La condición
// sobre prebill_id, status y active se reevalúa tras esperar el bloqueo de fila, de modo que
// un servicio que Generate acaba de prefacturar no vuelve a pending ni a approved.
func (r *ServiceRecordRepo) Update(ctx context.Context, s *entity.ServiceRecord) error {
	query := `
		UPDATE service_records SET company_id = $2, patient_id = $3, doctor_id = $4, service_date = $5,
			service_type = $6, procedure_code = $7, description = $8, diagnosis_code = $9,
			related_diagnoses = $10, authorization_number = $11, quantity = $12, unit_value = $13,
			total_value = $14, copay_value = $15, status = $16, audit_notes = $17, objected_value = $18,
			audited_by = $19, audited_at = $20, active = $21, updated_by = $22, updated_at = $23
		WHERE id = $1 AND active AND prebill_id IS NULL AND status <> $24`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.PatientID, s.DoctorID, s.ServiceDate,
		s.ServiceType, s.ProcedureCode, s.Description, s.DiagnosisCode,
		nonNil(s.RelatedDiagnoses), s.AuthorizationNumber, s.Quantity, s.UnitValue,
		s.TotalValue, s.CopayValue, s.Status, s.AuditNotes, s.ObjectedValue,
		s.AuditedBy, s.AuditedAt, s.Active, s.UpdatedBy, s.UpdatedAt, entity.ServiceStatusBilled,
	)
	if err != nil {
		return fmt.Errorf("update service record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: el servicio fue prefacturado o desactivado", domain.ErrConflict)
	}
	return nil
}

// List lista servicios que cumplen f, más recientes primero.
func (r *ServiceRecordRepo) List(ctx context.Context, f repository.Filter, page repository.Page) ([]*entity.ServiceRecord, int, error) {
	where, args, err := serviceColumns.where(f, 1)
	if err != nil {
		return nil, 0, err
	}
	total, err := count(ctx, r.q, "service_records s", where, args)
	if err != nil {
		return nil, 0, fmt.Errorf("count service records: %w", err)
	}
	limit, args := paginate(page, args)
	list, err := r.query(ctx, serviceSelect+" "+where+" ORDER BY s.service_date DESC, s.created_at DESC"+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListForUpdate devuelve los servicios que cumplen f bloqueando las filas.
func (r *ServiceRecordRepo) ListForUpdate(ctx context.Context, f repository.Filter) ([]*entity.ServiceRecord, error) {
	where, args, err := serviceColumns.where(f, 1)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, serviceSelect+" "+where+" ORDER BY s.service_date, s.id FOR UPDATE OF s", args...)
}

// ListByPreBill devuelve los servicios incluidos en una prefactura.
func (r *ServiceRecordRepo) ListByPreBill(ctx context.Context, preBillID string) ([]*entity.ServiceRecord, error) {
	return r.query(ctx, serviceSelect+` WHERE s.prebill_id = $1 ORDER BY s.service_date, s.id`, preBillID)
}

// AttachToPreBill marca los servicios como facturados dentro de la prefactura.
func (r *ServiceRecordRepo) AttachToPreBill(ctx context.Context, ids []string, preBillID, userID string, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE service_records SET prebill_id = $2, status = $3, updated_by = $4, updated_at = $5
		WHERE id::text = ANY($1::text[]) AND prebill_id IS NULL`
	tag, err := r.q.Exec(ctx, query, ids, preBillID, entity.ServiceStatusBilled, userID, now)
	if err != nil {
		return fmt.Errorf("attach service records: %w", err)
	}
	if int(tag.RowsAffected()) != len(ids) {
		return fmt.Errorf("%w: servicios ya prefacturados", domain.ErrConflict)
	}
	return nil
}

// ReleaseFromPreBill libera los servicios de la prefactura y restaura su estado de auditoría:
// objected si tienen valor glosado, approved en otro caso.
func (r *ServiceRecordRepo) ReleaseFromPreBill(ctx context.Context, preBillID, userID string, now time.Time) error {
	query := `
		UPDATE service_records
		SET prebill_id = NULL,
		    status = CASE WHEN objected_value > 0 THEN $2 ELSE $3 END,
		    updated_by = $4, updated_at = $5
		WHERE prebill_id = $1`
	_, err := r.q.Exec(ctx, query, preBillID, entity.ServiceStatusObjected, entity.ServiceStatusApproved, userID, now)
	if err != nil {
		return fmt.Errorf("release service records: %w", err)
	}
	return nil
}

func (r *ServiceRecordRepo) query(ctx context.Context, query string, args ...any) ([]*entity.ServiceRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list service records: %w", err)
	}
	defer rows.Close()
	var list []*entity.ServiceRecord
	for rows.Next() {
		s, err := scanServiceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service record: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanServiceRecord(row pgx.Row) (*entity.ServiceRecord, error) {
	var s entity.ServiceRecord
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.PatientID, &s.DoctorID, &s.ServiceDate, &s.ServiceType, &s.ProcedureCode,
		&s.Description, &s.DiagnosisCode, &s.RelatedDiagnoses, &s.AuthorizationNumber, &s.Quantity,
		&s.UnitValue, &s.TotalValue, &s.CopayValue, &s.Status, &s.AuditNotes, &s.ObjectedValue,
		&s.AuditedBy, &s.AuditedAt, &s.PreBillID, &s.Active,
		&s.CreatedBy, &s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
