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

var _ repository.PreBillRepository = (*PreBillRepo)(nil)

var preBillColumns = columns{
	repository.FieldID:       {expr: "pb.id"},
	repository.FieldCompany:  {expr: "pb.company_id"},
	repository.FieldActive:   {expr: "pb.active"},
	repository.FieldStatus:   {expr: "pb.status"},
	repository.FieldInsurer:  {expr: "pb.insurer"},
	repository.FieldDateFrom: {expr: "pb.period_start"},
	repository.FieldDateTo:   {expr: "pb.period_end"},
	repository.FieldSearch:   {search: []string{"pb.number", "pb.insurer"}},
}

const preBillSelect = `
	SELECT pb.id, pb.company_id, pb.number, pb.period_start, pb.period_end, pb.insurer, pb.status,
	       pb.item_count, pb.subtotal, pb.copay_total, pb.objected_total, pb.net_total, pb.notes,
	       pb.issued_at, pb.cancelled_at, pb.active, pb.created_by, pb.updated_by, pb.created_at, pb.updated_at
	FROM prebills pb`

// PreBillRepo implementación de PreBillRepository (usable con pool o tx).
type PreBillRepo struct {
	q Querier
}

// NewPreBillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPreBillRepository(q Querier) *PreBillRepo {
	return &PreBillRepo{q: q}
}

// Create persiste la cabecera de la prefactura.
func (r *PreBillRepo) Create(ctx context.Context, p *entity.PreBill) error {
	query := `
		INSERT INTO prebills (id, company_id, number, period_start, period_end, insurer, status, item_count,
			subtotal, copay_total, objected_total, net_total, notes, issued_at, cancelled_at, active,
			created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.Number, p.PeriodStart, p.PeriodEnd, p.Insurer, p.Status, p.ItemCount,
		p.Subtotal, p.CopayTotal, p.ObjectedTotal, p.NetTotal, p.Notes, p.IssuedAt, p.CancelledAt, p.Active,
		p.CreatedBy, p.UpdatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert prebill: %w", err)
	}
	return nil
}

// GetByID obtiene una prefactura por ID.
func (r *PreBillRepo) GetByID(ctx context.Context, id string) (*entity.PreBill, error) {
	p, err := scanPreBill(r.q.QueryRow(ctx, preBillSelect+` WHERE pb.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get prebill: %w", err)
	}
	return p, nil
}

// Transition cambia el estado de la prefactura condicionado al estado esperado.
func (r *PreBillRepo) Transition(ctx context.Context, p *entity.PreBill, from string) error {
	query := `
		UPDATE prebills SET status = $2, issued_at = $3, cancelled_at = $4, updated_by = $5, updated_at = $6
		WHERE id = $1 AND status = $7`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Status, p.IssuedAt, p.CancelledAt, p.UpdatedBy, p.UpdatedAt, from,
	)
	if err != nil {
		return fmt.Errorf("update prebill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: la prefactura ya no está en estado %s", domain.ErrConflict, from)
	}
	return nil
}

// List lista prefacturas que cumplen f, más recientes primero.
func (r *PreBillRepo) List(ctx context.Context, f repository.Filter, page repository.Page) ([]*entity.PreBill, int, error) {
	where, args, err := preBillColumns.where(f, 1)
	if err != nil {
		return nil, 0, err
	}
	total, err := count(ctx, r.q, "prebills pb", where, args)
	if err != nil {
		return nil, 0, fmt.Errorf("count prebills: %w", err)
	}
	limit, args := paginate(page, args)
	rows, err := r.q.Query(ctx, preBillSelect+" "+where+" ORDER BY pb.created_at DESC"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list prebills: %w", err)
	}
	defer rows.Close()
	var list []*entity.PreBill
	for rows.Next() {
		p, err := scanPreBill(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan prebill: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// NextNumber incrementa y devuelve el consecutivo de prefacturas de la empresa.
// La fila de la secuencia queda bloqueada hasta el fin de la transacción.
func (r *PreBillRepo) NextNumber(ctx context.Context, companyID string) (int64, error) {
	query := `
		INSERT INTO company_sequences (company_id, name, last_value) VALUES ($1, 'prebill', 1)
		ON CONFLICT (company_id, name) DO UPDATE SET last_value = company_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("next prebill number: %w", err)
	}
	return n, nil
}

func scanPreBill(row pgx.Row) (*entity.PreBill, error) {
	var p entity.PreBill
	err := row.Scan(&p.ID, &p.CompanyID, &p.Number, &p.PeriodStart, &p.PeriodEnd, &p.Insurer, &p.Status,
		&p.ItemCount, &p.Subtotal, &p.CopayTotal, &p.ObjectedTotal, &p.NetTotal, &p.Notes,
		&p.IssuedAt, &p.CancelledAt, &p.Active, &p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
