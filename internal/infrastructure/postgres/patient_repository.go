package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
)

var _ repository.PatientRepository = (*PatientRepo)(nil)

// Los pacientes no tienen empresa: FieldCompany no está registrado.
var patientColumns = columns{
	repository.FieldID:       {expr: "p.id"},
	repository.FieldActive:   {expr: "p.active"},
	repository.FieldInsurer:  {expr: "p.insurer"},
	repository.FieldDocument: {expr: "p.document_number"},
	repository.FieldSearch:   {search: []string{"p.document_number", "p.first_name", "p.last_name"}},
}

const patientSelect = `
	SELECT p.id, p.document_type, p.document_number, p.first_name, p.last_name, p.birth_date, p.sex,
	       p.insurer, p.regime, p.phone, p.email, p.address, p.active,
	       p.created_by, p.updated_by, p.created_at, p.updated_at
	FROM patients p`

// PatientRepo implementación de PatientRepository.
type PatientRepo struct {
	q Querier
}

// NewPatientRepository construye el adaptador.
func NewPatientRepository(q Querier) *PatientRepo {
	return &PatientRepo{q: q}
}

// Create persiste un paciente. (tipo, número) de documento repetido es ErrDuplicate.
func (r *PatientRepo) Create(ctx context.Context, p *entity.Patient) error {
	query := `
		INSERT INTO patients (id, document_type, document_number, first_name, last_name, birth_date, sex,
			insurer, regime, phone, email, address, active, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.DocumentType, p.DocumentNumber, p.FirstName, p.LastName, p.BirthDate, p.Sex,
		p.Insurer, p.Regime, p.Phone, p.Email, p.Address, p.Active,
		p.CreatedBy, p.UpdatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

// GetByID obtiene un paciente por ID.
func (r *PatientRepo) GetByID(ctx context.Context, id string) (*entity.Patient, error) {
	return r.findOne(ctx, patientSelect+` WHERE p.id = $1`, id)
}

// GetByDocument obtiene un paciente por tipo y número de documento.
func (r *PatientRepo) GetByDocument(ctx context.Context, documentType, documentNumber string) (*entity.Patient, error) {
	return r.findOne(ctx, patientSelect+` WHERE p.document_type = $1 AND p.document_number = $2`,
		documentType, documentNumber)
}

func (r *PatientRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Patient, error) {
	p, err := scanPatient(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

// Update actualiza un paciente.
func (r *PatientRepo) Update(ctx context.Context, p *entity.Patient) error {
	query := `
		UPDATE patients SET document_type = $2, document_number = $3, first_name = $4, last_name = $5,
			birth_date = $6, sex = $7, insurer = $8, regime = $9, phone = $10, email = $11, address = $12,
			active = $13, updated_by = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.DocumentType, p.DocumentNumber, p.FirstName, p.LastName, p.BirthDate, p.Sex,
		p.Insurer, p.Regime, p.Phone, p.Email, p.Address, p.Active, p.UpdatedBy, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista pacientes que cumplen f.
func (r *PatientRepo) List(ctx context.Context, f repository.Filter, page repository.Page) ([]*entity.Patient, int, error) {
	where, args, err := patientColumns.where(f, 1)
	if err != nil {
		return nil, 0, err
	}
	total, err := count(ctx, r.q, "patients p", where, args)
	if err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}
	limit, args := paginate(page, args)
	rows, err := r.q.Query(ctx, patientSelect+" "+where+" ORDER BY p.last_name, p.first_name"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan patient: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func scanPatient(row pgx.Row) (*entity.Patient, error) {
	var p entity.Patient
	err := row.Scan(&p.ID, &p.DocumentType, &p.DocumentNumber, &p.FirstName, &p.LastName, &p.BirthDate, &p.Sex,
		&p.Insurer, &p.Regime, &p.Phone, &p.Email, &p.Address, &p.Active,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
