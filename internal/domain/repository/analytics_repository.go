package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusTotal conteo y valor de servicios agrupados por estado de auditoría.
type StatusTotal struct {
	Status        string
	Count         int
	TotalValue    decimal.Decimal
	ObjectedValue decimal.Decimal
}

// DiagnosisTotal servicios agrupados por diagnóstico principal.
type DiagnosisTotal struct {
	Code        string
	Description string
	Count       int
	TotalValue  decimal.Decimal
}

// DoctorTotal servicios agrupados por médico.
type DoctorTotal struct {
	DoctorID   string
	DoctorName string
	Count      int
	TotalValue decimal.Decimal
}

// MonthTotal servicios agrupados por mes de prestación.
type MonthTotal struct {
	Month      time.Time // primer día del mes
	Count      int
	TotalValue decimal.Decimal
}

// AnalyticsRepository consultas de lectura para el dashboard de auditoría.
// Todas reciben el predicado ya acotado por empresa; las implementaciones son read-only.
type AnalyticsRepository interface {
	StatusSummary(ctx context.Context, f Filter) ([]StatusTotal, error)
	TopDiagnoses(ctx context.Context, f Filter, limit int) ([]DiagnosisTotal, error)
	TopDoctors(ctx context.Context, f Filter, limit int) ([]DoctorTotal, error)
	MonthlyTotals(ctx context.Context, f Filter, since time.Time) ([]MonthTotal, error)
}
