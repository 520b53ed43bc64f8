package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
	"github.com/jhoicas/Auditoria-api/pkg/textnorm"
)

var _ repository.CIE11Repository = (*CIE11Repo)(nil)

// FieldSearch compara contra la descripción normalizada (sin tildes, minúsculas):
// quien llama debe pasar el término ya plegado con textnorm.Fold.
var cie11Columns = columns{
	repository.FieldID:       {expr: "c.id"},
	repository.FieldActive:   {expr: "c.active"},
	repository.FieldBillable: {expr: "c.billable"},
	repository.FieldCode:     {expr: "c.code"},
	repository.FieldSearch:   {search: []string{"c.code", "c.description_normalized"}},
}

const cie11Select = `
	SELECT c.id, c.code, c.description, c.chapter, c.min_age, c.max_age, c.sex, c.billable, c.active,
	       c.created_by, c.updated_by, c.created_at, c.updated_at
	FROM cie11_codes c`

// CIE11Repo catálogo de diagnósticos CIE-11.
type CIE11Repo struct {
	q Querier
}

// NewCIE11Repository construye el adaptador.
func NewCIE11Repository(q Querier) *CIE11Repo {
	return &CIE11Repo{q: q}
}

// Create persiste un código. Código repetido es ErrDuplicate.
func (r *CIE11Repo) Create(ctx context.Context, c *entity.CIE11Code) error {
	query := `
		INSERT INTO cie11_codes (id, code, description, description_normalized, chapter, min_age, max_age,
			sex, billable, active, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Code, c.Description, textnorm.Fold(c.Description), c.Chapter, c.MinAge, c.MaxAge,
		c.Sex, c.Billable, c.Active, c.CreatedBy, c.UpdatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cie11: %w", err)
	}
	return nil
}

// GetByID obtiene un código por ID.
func (r *CIE11Repo) GetByID(ctx context.Context, id string) (*entity.CIE11Code, error) {
	return r.findOne(ctx, cie11Select+` WHERE c.id = $1`, id)
}

// GetByCode obtiene un código por su valor normalizado (mayúsculas).
func (r *CIE11Repo) GetByCode(ctx context.Context, code string) (*entity.CIE11Code, error) {
	return r.findOne(ctx, cie11Select+` WHERE c.code = $1`, code)
}

func (r *CIE11Repo) findOne(ctx context.Context, query string, args ...any) (*entity.CIE11Code, error) {
	c, err := scanCIE11(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cie11: %w", err)
	}
	return c, nil
}

// Update actualiza un código.
func (r *CIE11Repo) Update(ctx context.Context, c *entity.CIE11Code) error {
	query := `
		UPDATE cie11_codes SET code = $2, description = $3, description_normalized = $4, chapter = $5,
			min_age = $6, max_age = $7, sex = $8, billable = $9, active = $10, updated_by = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Code, c.Description, textnorm.Fold(c.Description), c.Chapter, c.MinAge, c.MaxAge,
		c.Sex, c.Billable, c.Active, c.UpdatedBy, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update cie11: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista códigos que cumplen f ordenados por código.
func (r *CIE11Repo) List(ctx context.Context, f repository.Filter, page repository.Page) ([]*entity.CIE11Code, int, error) {
	where, args, err := cie11Columns.where(f, 1)
	if err != nil {
		return nil, 0, err
	}
	total, err := count(ctx, r.q, "cie11_codes c", where, args)
	if err != nil {
		return nil, 0, fmt.Errorf("count cie11: %w", err)
	}
	limit, args := paginate(page, args)
	rows, err := r.q.Query(ctx, cie11Select+" "+where+" ORDER BY c.code"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cie11: %w", err)
	}
	defer rows.Close()
	var list []*entity.CIE11Code
	for rows.Next() {
		c, err := scanCIE11(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan cie11: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

func scanCIE11(row pgx.Row) (*entity.CIE11Code, error) {
	var c entity.CIE11Code
	err := row.Scan(&c.ID, &c.Code, &c.Description, &c.Chapter, &c.MinAge, &c.MaxAge, &c.Sex, &c.Billable, &c.Active,
		&c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
