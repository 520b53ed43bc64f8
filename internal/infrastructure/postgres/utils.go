package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
)

// Querier es la parte común de *pgxpool.Pool y pgx.Tx que usan los repositorios.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// column describe cómo se traduce un campo lógico del Filter a SQL.
type column struct {
	expr   string   // expresión SQL (columna calificada)
	array  bool     // columna text[]: Eq/In se evalúan por pertenencia/solapamiento
	search []string // para FieldSearch: columnas combinadas con OR
	pred   string   // predicado fijo; Value bool decide si se niega
}

// columns whitelist de campos lógicos por tabla.
type columns map[string]column

// where traduce f a una cláusula WHERE con placeholders a partir de $start.
// Devuelve "" si f está vacío. Un campo no registrado es ErrInvalidInput.
func (cols columns) where(f repository.Filter, start int) (string, []any, error) {
	if len(f.Conditions) == 0 {
		return "", nil, nil
	}
	parts := make([]string, 0, len(f.Conditions))
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", start+len(args)-1)
	}

	for _, c := range f.Conditions {
		col, ok := cols[c.Field]
		if !ok {
			return "", nil, fmt.Errorf("%w: campo de filtro %q", domain.ErrInvalidInput, c.Field)
		}
		var part string
		switch {
		case col.pred != "":
			want, _ := c.Value.(bool)
			part = col.pred
			if !want {
				part = "NOT (" + col.pred + ")"
			}
		case len(col.search) > 0:
			s, _ := c.Value.(string)
			ph := next(likePattern(c.Op, s))
			ors := make([]string, len(col.search))
			for i, e := range col.search {
				ors[i] = fmt.Sprintf("%s ILIKE %s", e, ph)
			}
			part = "(" + strings.Join(ors, " OR ") + ")"
		default:
			var err error
			part, err = cols.compare(col, c, next)
			if err != nil {
				return "", nil, err
			}
		}
		parts = append(parts, part)
	}
	return "WHERE " + strings.Join(parts, " AND "), args, nil
}

func (cols columns) compare(col column, c repository.Condition, next func(any) string) (string, error) {
	switch c.Op {
	case repository.OpEq:
		if col.array {
			return fmt.Sprintf("%s = ANY(%s)", next(c.Value), col.expr), nil
		}
		return fmt.Sprintf("%s = %s", col.expr, next(c.Value)), nil
	case repository.OpIn:
		vs, ok := c.Value.([]string)
		if !ok {
			return "", fmt.Errorf("%w: valor IN de %q", domain.ErrInvalidInput, c.Field)
		}
		if len(vs) == 0 {
			return "FALSE", nil
		}
		if col.array {
			return fmt.Sprintf("%s && %s::text[]", col.expr, next(vs)), nil
		}
		return fmt.Sprintf("%s::text = ANY(%s::text[])", col.expr, next(vs)), nil
	case repository.OpILike, repository.OpPrefix:
		s, _ := c.Value.(string)
		return fmt.Sprintf("%s ILIKE %s", col.expr, next(likePattern(c.Op, s))), nil
	case repository.OpGte:
		return fmt.Sprintf("%s >= %s", col.expr, next(c.Value)), nil
	case repository.OpLte:
		return fmt.Sprintf("%s <= %s", col.expr, next(c.Value)), nil
	case repository.OpIsNull:
		if isNull, _ := c.Value.(bool); isNull {
			return col.expr + " IS NULL", nil
		}
		return col.expr + " IS NOT NULL", nil
	}
	return "", fmt.Errorf("%w: operador %q", domain.ErrInvalidInput, c.Op)
}

func likePattern(op repository.Op, s string) string {
	s = escapeLike(s)
	if op == repository.OpPrefix {
		return s + "%"
	}
	return "%" + s + "%"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// count ejecuta un SELECT COUNT(*) sobre table con la cláusula dada.
func count(ctx context.Context, q Querier, table, where string, args []any) (int, error) {
	var n int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+table+" "+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// paginate agrega LIMIT/OFFSET como placeholders al final de args.
func paginate(page repository.Page, args []any) (string, []any) {
	page = page.Normalize()
	n := len(args)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), append(args, page.Limit, page.Offset)
}
