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

var _ repository.DoctorRepository = (*DoctorRepo)(nil)

var doctorColumns = columns{
	repository.FieldID:        {expr: "d.id"},
	repository.FieldCompany:   {expr: "d.company_id"},
	repository.FieldActive:    {expr: "d.active"},
	repository.FieldSpecialty: {expr: "d.specialty"},
	repository.FieldDocument:  {expr: "d.document_number"},
	repository.FieldSearch: {search: []string{
		"d.first_name", "d.last_name", "d.document_number", "d.professional_card",
	}},
}

const doctorSelect = `
	SELECT d.id, d.company_id, d.first_name, d.last_name, d.document_type, d.document_number,
	       d.professional_card, d.specialty, d.email, d.phone, d.active,
	       d.created_by, d.updated_by, d.created_at, d.updated_at
	FROM doctors d`

// DoctorRepo implementación de DoctorRepository (usable con pool o tx).
type DoctorRepo struct {
	q Querier
}

// NewDoctorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDoctorRepository(q Querier) *DoctorRepo {
	return &DoctorRepo{q: q}
}

// Create persiste un médico. Tarjeta profesional repetida es ErrDuplicate.
func (r *DoctorRepo) Create(ctx context.Context, d *entity.Doctor) error {
	query := `
		INSERT INTO doctors (id, company_id, first_name, last_name, document_type, document_number,
			professional_card, specialty, email, phone, active, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.CompanyID, d.FirstName, d.LastName, d.DocumentType, d.DocumentNumber,
		d.ProfessionalCard, d.Specialty, d.Email, d.Phone, d.Active,
		d.CreatedBy, d.UpdatedBy, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert doctor: %w", err)
	}
	return nil
}

// GetByID obtiene un médico por ID.
func (r *DoctorRepo) GetByID(ctx context.Context, id string) (*entity.Doctor, error) {
	return r.findOne(ctx, doctorSelect+` WHERE d.id = $1`, id)
}

// GetByProfessionalCard obtiene un médico por tarjeta profesional.
func (r *DoctorRepo) GetByProfessionalCard(ctx context.Context, card string) (*entity.Doctor, error) {
	return r.findOne(ctx, doctorSelect+` WHERE d.professional_card = $1`, card)
}

func (r *DoctorRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Doctor, error) {
	d, err := scanDoctor(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	return d, nil
}

// Update actualiza un médico.
func (r *DoctorRepo) Update(ctx context.Context, d *entity.Doctor) error {
	query := `
		UPDATE doctors SET company_id = $2, first_name = $3, last_name = $4, document_type = $5,
			document_number = $6, professional_card = $7, specialty = $8, email = $9, phone = $10,
			active = $11, updated_by = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		d.ID, d.CompanyID, d.FirstName, d.LastName, d.DocumentType, d.DocumentNumber,
		d.ProfessionalCard, d.Specialty, d.Email, d.Phone, d.Active, d.UpdatedBy, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista médicos que cumplen f.
func (r *DoctorRepo) List(ctx context.Context, f repository.Filter, page repository.Page) ([]*entity.Doctor, int, error) {
	where, args, err := doctorColumns.where(f, 1)
	if err != nil {
		return nil, 0, err
	}
	total, err := count(ctx, r.q, "doctors d", where, args)
	if err != nil {
		return nil, 0, fmt.Errorf("count doctors: %w", err)
	}
	limit, args := paginate(page, args)
	rows, err := r.q.Query(ctx, doctorSelect+" "+where+" ORDER BY d.last_name, d.first_name"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()
	var list []*entity.Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan doctor: %w", err)
		}
		list = append(list, d)
	}
	return list, total, rows.Err()
}

func scanDoctor(row pgx.Row) (*entity.Doctor, error) {
	var d entity.Doctor
	err := row.Scan(&d.ID, &d.CompanyID, &d.FirstName, &d.LastName, &d.DocumentType, &d.DocumentNumber,
		&d.ProfessionalCard, &d.Specialty, &d.Email, &d.Phone, &d.Active,
		&d.CreatedBy, &d.UpdatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
