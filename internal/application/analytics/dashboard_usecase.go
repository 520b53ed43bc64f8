// Package analytics contiene el caso de uso del dashboard de auditoría.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const (
	dashboardTop    = 10 // diagnósticos y médicos en los rankings
	dashboardMonths = 12
)

var hundred = decimal.NewFromInt(100)

// DashboardUseCase genera el resumen de auditoría visible para el actor.
//
// Fuente de datos: AnalyticsRepository (consultas read-only). Todas las consultas
// reciben el mismo predicado, ya acotado al alcance de empresas del actor.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// GetSummary construye el DashboardResponse.
//
// Cuatro llamadas en paralelo:
//  1. StatusSummary  → totales y ByStatus
//  2. TopDiagnoses   → TopDiagnoses
//  3. TopDoctors     → TopDoctors
//  4. MonthlyTotals  → Monthly (últimos 12 meses hasta "to" o hoy)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor access.Actor, in dto.DashboardFilter) (*dto.DashboardResponse, error) {
	f, until, err := uc.filter(actor, in)
	if err != nil {
		return nil, err
	}
	since := time.Date(until.Year(), until.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(dashboardMonths - 1), 0)

	type statusResult struct {
		rows []repository.StatusTotal
		err  error
	}
	type diagnosisResult struct {
		rows []repository.DiagnosisTotal
		err  error
	}
	type doctorResult struct {
		rows []repository.DoctorTotal
		err  error
	}
	type monthResult struct {
		rows []repository.MonthTotal
		err  error
	}

	statusCh := make(chan statusResult, 1)
	diagCh := make(chan diagnosisResult, 1)
	docCh := make(chan doctorResult, 1)
	monthCh := make(chan monthResult, 1)

	go func() {
		rows, err := uc.analyticsRepo.StatusSummary(ctx, f)
		statusCh <- statusResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.TopDiagnoses(ctx, f, dashboardTop)
		diagCh <- diagnosisResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.TopDoctors(ctx, f, dashboardTop)
		docCh <- doctorResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.MonthlyTotals(ctx, f, since)
		monthCh <- monthResult{rows, err}
	}()

	status := <-statusCh
	diags := <-diagCh
	docs := <-docCh
	months := <-monthCh

	if status.err != nil {
		return nil, fmt.Errorf("dashboard: estados: %w", status.err)
	}
	if diags.err != nil {
		return nil, fmt.Errorf("dashboard: diagnósticos: %w", diags.err)
	}
	if docs.err != nil {
		return nil, fmt.Errorf("dashboard: médicos: %w", docs.err)
	}
	if months.err != nil {
		return nil, fmt.Errorf("dashboard: meses: %w", months.err)
	}

	out := &dto.DashboardResponse{
		TotalValue:    decimal.Zero,
		ObjectedValue: decimal.Zero,
		ObjectionRate: decimal.Zero,
		ByStatus:      make([]dto.StatusCountDTO, 0, len(status.rows)),
		TopDiagnoses:  make([]dto.DiagnosisDTO, 0, len(diags.rows)),
		TopDoctors:    make([]dto.DoctorStatDTO, 0, len(docs.rows)),
	}
	for _, r := range status.rows {
		out.TotalServices += r.Count
		out.TotalValue = out.TotalValue.Add(r.TotalValue)
		out.ObjectedValue = out.ObjectedValue.Add(r.ObjectedValue)
		out.ByStatus = append(out.ByStatus, dto.StatusCountDTO{
			Status:        r.Status,
			Count:         r.Count,
			TotalValue:    r.TotalValue.Round(2),
			ObjectedValue: r.ObjectedValue.Round(2),
		})
	}
	if out.TotalValue.IsPositive() {
		out.ObjectionRate = out.ObjectedValue.Div(out.TotalValue).Mul(hundred).Round(2)
	}
	out.TotalValue = out.TotalValue.Round(2)
	out.ObjectedValue = out.ObjectedValue.Round(2)

	for _, r := range diags.rows {
		out.TopDiagnoses = append(out.TopDiagnoses, dto.DiagnosisDTO{
			Code: r.Code, Description: r.Description, Count: r.Count, TotalValue: r.TotalValue.Round(2),
		})
	}
	for _, r := range docs.rows {
		out.TopDoctors = append(out.TopDoctors, dto.DoctorStatDTO{
			DoctorID: r.DoctorID, DoctorName: r.DoctorName, Count: r.Count, TotalValue: r.TotalValue.Round(2),
		})
	}
	out.Monthly = fillMonths(since, months.rows)
	return out, nil
}

// filter arma el predicado: servicios activos, rango de fechas y alcance del actor.
// Devuelve además la fecha de corte de la serie mensual.
func (uc *DashboardUseCase) filter(actor access.Actor, in dto.DashboardFilter) (repository.Filter, time.Time, error) {
	f := repository.NewFilter().Eq(repository.FieldActive, true)
	until := uc.now()

	if s := strings.TrimSpace(in.From); s != "" {
		from, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, until, fmt.Errorf("%w: from debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		f = f.Where(repository.FieldDateFrom, repository.OpGte, from)
	}
	if s := strings.TrimSpace(in.To); s != "" {
		to, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, until, fmt.Errorf("%w: to debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		f = f.Where(repository.FieldDateTo, repository.OpLte, to)
		until = to
	}
	if id := strings.TrimSpace(in.CompanyID); id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return f, until, fmt.Errorf("%w: companyId inválido", domain.ErrInvalidInput)
		}
		if !actor.Scope.Allows(id) {
			return f, until, domain.ErrForbidden
		}
		f = f.Eq(repository.FieldCompany, id)
	}
	return actor.Scope.Apply(f), until, nil
}

// fillMonths devuelve los 12 meses desde since, con ceros donde no hubo servicios.
func fillMonths(since time.Time, rows []repository.MonthTotal) []dto.MonthStatDTO {
	byMonth := make(map[string]repository.MonthTotal, len(rows))
	for _, r := range rows {
		byMonth[r.Month.Format("2006-01")] = r
	}
	out := make([]dto.MonthStatDTO, 0, dashboardMonths)
	for i := 0; i < dashboardMonths; i++ {
		m := since.AddDate(0, i, 0)
		key := m.Format("2006-01")
		stat := dto.MonthStatDTO{Month: key, Label: monthLabel(m), TotalValue: decimal.Zero}
		if r, ok := byMonth[key]; ok {
			stat.Count = r.Count
			stat.TotalValue = r.TotalValue.Round(2)
		}
		out = append(out, stat)
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
