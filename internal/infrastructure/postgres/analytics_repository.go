package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard de auditoría.
// Todas aplican el mismo whitelist que el listado de servicios.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// StatusSummary agrupa conteo, valor total y valor glosado por estado de auditoría.
func (r *AnalyticsRepo) StatusSummary(ctx context.Context, f repository.Filter) ([]repository.StatusTotal, error) {
	where, args, err := serviceColumns.where(f, 1)
	if err != nil {
		return nil, err
	}
	query := `
	SELECT s.status, COUNT(*), COALESCE(SUM(s.total_value), 0), COALESCE(SUM(s.objected_value), 0)
	FROM service_records s ` + where + `
	GROUP BY s.status
	ORDER BY s.status`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.StatusSummary: %w", err)
	}
	defer rows.Close()

	var results []repository.StatusTotal
	for rows.Next() {
		var row repository.StatusTotal
		if err := rows.Scan(&row.Status, &row.Count, &row.TotalValue, &row.ObjectedValue); err != nil {
			return nil, fmt.Errorf("analytics.StatusSummary scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// TopDiagnoses devuelve los diagnósticos principales más frecuentes.
// La descripción sale del catálogo; si el código ya no existe queda vacía.
func (r *AnalyticsRepo) TopDiagnoses(ctx context.Context, f repository.Filter, limit int) ([]repository.DiagnosisTotal, error) {
	where, args, err := serviceColumns.where(f, 1)
	if err != nil {
		return nil, err
	}
	args = append(args, limit)
	query := fmt.Sprintf(`
	SELECT s.diagnosis_code, COALESCE(c.description, ''), COUNT(*), COALESCE(SUM(s.total_value), 0)
	FROM service_records s
	LEFT JOIN cie11_codes c ON c.code = s.diagnosis_code
	%s
	GROUP BY s.diagnosis_code, c.description
	ORDER BY COUNT(*) DESC, s.diagnosis_code
	LIMIT $%d`, where, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopDiagnoses: %w", err)
	}
	defer rows.Close()

	var results []repository.DiagnosisTotal
	for rows.Next() {
		var row repository.DiagnosisTotal
		if err := rows.Scan(&row.Code, &row.Description, &row.Count, &row.TotalValue); err != nil {
			return nil, fmt.Errorf("analytics.TopDiagnoses scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// TopDoctors devuelve los médicos con más servicios registrados.
func (r *AnalyticsRepo) TopDoctors(ctx context.Context, f repository.Filter, limit int) ([]repository.DoctorTotal, error) {
	where, args, err := serviceColumns.where(f, 1)
	if err != nil {
		return nil, err
	}
	args = append(args, limit)
	query := fmt.Sprintf(`
	SELECT d.id, d.first_name || ' ' || d.last_name, COUNT(*), COALESCE(SUM(s.total_value), 0)
	FROM service_records s
	JOIN doctors d ON d.id = s.doctor_id
	%s
	GROUP BY d.id, d.first_name, d.last_name
	ORDER BY COUNT(*) DESC, d.last_name
	LIMIT $%d`, where, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopDoctors: %w", err)
	}
	defer rows.Close()

	var results []repository.DoctorTotal
	for rows.Next() {
		var row repository.DoctorTotal
		if err := rows.Scan(&row.DoctorID, &row.DoctorName, &row.Count, &row.TotalValue); err != nil {
			return nil, fmt.Errorf("analytics.TopDoctors scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// MonthlyTotals agrupa servicios por mes de prestación desde since.
func (r *AnalyticsRepo) MonthlyTotals(ctx context.Context, f repository.Filter, since time.Time) ([]repository.MonthTotal, error) {
	where, args, err := serviceColumns.where(f.Where(repository.FieldDateFrom, repository.OpGte, since), 1)
	if err != nil {
		return nil, err
	}
	query := `
	SELECT date_trunc('month', s.service_date)::date AS month, COUNT(*), COALESCE(SUM(s.total_value), 0)
	FROM service_records s ` + where + `
	GROUP BY month
	ORDER BY month`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.MonthlyTotals: %w", err)
	}
	defer rows.Close()

	var results []repository.MonthTotal
	for rows.Next() {
		var row repository.MonthTotal
		if err := rows.Scan(&row.Month, &row.Count, &row.TotalValue); err != nil {
			return nil, fmt.Errorf("analytics.MonthlyTotals scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
