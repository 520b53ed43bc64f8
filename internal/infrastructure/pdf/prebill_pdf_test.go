package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Auditoria-api/internal/application/usecase"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

func TestGeneratePreBillPDF(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := &entity.PreBill{
		ID: "6f1c1b2e-0000-4000-8000-000000000001", Number: "PF-000007",
		PeriodStart: start, PeriodEnd: start.AddDate(0, 1, -1),
		Insurer: "SURA", Status: entity.PreBillStatusDraft, ItemCount: 1,
		Subtotal: decimal.NewFromInt(90000), CopayTotal: decimal.NewFromInt(4000),
		ObjectedTotal: decimal.NewFromInt(10000), NetTotal: decimal.NewFromInt(76000),
	}
	company := &entity.Company{Name: "IPS Salud Total", NIT: "900123456-8"}
	lines := []usecase.PreBillLine{{
		Service: &entity.ServiceRecord{
			ServiceDate: start.AddDate(0, 0, 4), ProcedureCode: "890201", DiagnosisCode: "5A11",
			Quantity: 2, TotalValue: decimal.NewFromInt(90000), ObjectedValue: decimal.NewFromInt(10000),
		},
		PatientName: "Ana Pérez", PatientDocument: "CC 1020304050", DoctorName: "Luis Gómez",
	}}

	out, err := NewMarotoPDFGenerator().GeneratePreBillPDF(context.Background(), p, company, lines)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGeneratePreBillPDF_SinEmpresa(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GeneratePreBillPDF(context.Background(), &entity.PreBill{}, nil, nil)
	assert.Error(t, err)
}

func TestMoney(t *testing.T) {
	cases := map[string]decimal.Decimal{
		"$0":          decimal.Zero,
		"$950":        decimal.NewFromInt(950),
		"$25.000":     decimal.NewFromInt(25000),
		"$1.234.568":  decimal.RequireFromString("1234567.8"),
		"-$1.000.000": decimal.NewFromInt(-1000000),
	}
	for want, in := range cases {
		assert.Equal(t, want, money(in), in.String())
	}
}
