package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyC1 = "11111111-1111-4111-8111-111111111111"
	companyC2 = "22222222-2222-4222-8222-222222222222"
)

// fakeAnalytics registra los filtros recibidos y devuelve datos fijos.
type fakeAnalytics struct {
	mu      sync.Mutex
	filters []repository.Filter
	since   time.Time
	failOn  string
}

func (f *fakeAnalytics) record(name string, flt repository.Filter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, flt)
	if f.failOn == name {
		return errors.New("db caída")
	}
	return nil
}

func (f *fakeAnalytics) StatusSummary(_ context.Context, flt repository.Filter) ([]repository.StatusTotal, error) {
	if err := f.record("status", flt); err != nil {
		return nil, err
	}
	return []repository.StatusTotal{
		{Status: "approved", Count: 3, TotalValue: decimal.NewFromInt(300000)},
		{Status: "objected", Count: 1, TotalValue: decimal.NewFromInt(100000), ObjectedValue: decimal.NewFromInt(40000)},
	}, nil
}

func (f *fakeAnalytics) TopDiagnoses(_ context.Context, flt repository.Filter, limit int) ([]repository.DiagnosisTotal, error) {
	if err := f.record("diagnoses", flt); err != nil {
		return nil, err
	}
	return []repository.DiagnosisTotal{{Code: "5A11", Description: "Diabetes", Count: 4, TotalValue: decimal.NewFromInt(400000)}}, nil
}

func (f *fakeAnalytics) TopDoctors(_ context.Context, flt repository.Filter, limit int) ([]repository.DoctorTotal, error) {
	if err := f.record("doctors", flt); err != nil {
		return nil, err
	}
	return []repository.DoctorTotal{{DoctorID: "d1", DoctorName: "Luis Gómez", Count: 4, TotalValue: decimal.NewFromInt(400000)}}, nil
}

func (f *fakeAnalytics) MonthlyTotals(_ context.Context, flt repository.Filter, since time.Time) ([]repository.MonthTotal, error) {
	if err := f.record("months", flt); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.since = since
	f.mu.Unlock()
	return []repository.MonthTotal{
		{Month: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Count: 4, TotalValue: decimal.NewFromInt(400000)},
	}, nil
}

func fixedNow() time.Time { return time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC) }

func TestDashboard_TotalesYSerieMensual(t *testing.T) {
	repo := &fakeAnalytics{}
	uc := NewDashboardUseCase(repo)
	uc.now = fixedNow

	out, err := uc.GetSummary(context.Background(), access.Actor{Scope: access.Unrestricted()}, dto.DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, out.TotalServices)
	assert.True(t, decimal.NewFromInt(400000).Equal(out.TotalValue))
	assert.True(t, decimal.NewFromInt(40000).Equal(out.ObjectedValue))
	assert.True(t, decimal.NewFromInt(10).Equal(out.ObjectionRate), out.ObjectionRate.String())
	assert.Len(t, out.ByStatus, 2)
	assert.Len(t, out.TopDiagnoses, 1)
	assert.Len(t, out.TopDoctors, 1)

	require.Len(t, out.Monthly, 12)
	assert.Equal(t, "2025-06", out.Monthly[0].Month)
	assert.Equal(t, "2026-05", out.Monthly[11].Month)
	assert.Equal(t, "Mayo 2026", out.Monthly[11].Label)
	assert.Equal(t, 4, out.Monthly[9].Count)
	assert.Equal(t, "2026-03", out.Monthly[9].Month)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), repo.since)
}

func TestDashboard_FiltroAcotadoAlAlcance(t *testing.T) {
	repo := &fakeAnalytics{}
	uc := NewDashboardUseCase(repo)
	uc.now = fixedNow
	actor := access.Actor{Scope: access.Companies(companyC1)}

	_, err := uc.GetSummary(context.Background(), actor, dto.DashboardFilter{})
	require.NoError(t, err)
	require.Len(t, repo.filters, 4)
	for _, f := range repo.filters {
		assert.True(t, f.Has(repository.FieldCompany))
		last := f.Conditions[len(f.Conditions)-1]
		assert.Equal(t, repository.OpIn, last.Op)
		assert.Equal(t, []string{companyC1}, last.Value)
	}

	_, err = uc.GetSummary(context.Background(), actor, dto.DashboardFilter{CompanyID: companyC2})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.GetSummary(context.Background(), actor, dto.DashboardFilter{From: "01/03/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDashboard_ErrorDeConsulta(t *testing.T) {
	uc := NewDashboardUseCase(&fakeAnalytics{failOn: "doctors"})
	_, err := uc.GetSummary(context.Background(), access.Actor{Scope: access.Unrestricted()}, dto.DashboardFilter{})
	assert.ErrorContains(t, err, "médicos")
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Enero 2026", monthLabel(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Diciembre 2025", monthLabel(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
}
