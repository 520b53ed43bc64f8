package dto

import "github.com/shopspring/decimal"

// DashboardFilter acota el dashboard por empresa y rango de fechas (YYYY-MM-DD).
type DashboardFilter struct {
	CompanyID string `query:"companyId"`
	From      string `query:"from"`
	To        string `query:"to"`
}

// DashboardResponse respuesta de GET /api/reports/dashboard.
type DashboardResponse struct {
	TotalServices int              `json:"totalServices"`
	TotalValue    decimal.Decimal  `json:"totalValue"`
	ObjectedValue decimal.Decimal  `json:"objectedValue"`
	ObjectionRate decimal.Decimal  `json:"objectionRate"` // % del valor glosado sobre el total
	ByStatus      []StatusCountDTO `json:"byStatus"`
	TopDiagnoses  []DiagnosisDTO   `json:"topDiagnoses"`
	TopDoctors    []DoctorStatDTO  `json:"topDoctors"`
	Monthly       []MonthStatDTO   `json:"monthly"`
}

// StatusCountDTO servicios por estado de auditoría.
type StatusCountDTO struct {
	Status        string          `json:"status"`
	Count         int             `json:"count"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	ObjectedValue decimal.Decimal `json:"objectedValue"`
}

// DiagnosisDTO diagnóstico frecuente.
type DiagnosisDTO struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Count       int             `json:"count"`
	TotalValue  decimal.Decimal `json:"totalValue"`
}

// DoctorStatDTO médico con más servicios.
type DoctorStatDTO struct {
	DoctorID   string          `json:"doctorId"`
	DoctorName string          `json:"doctorName"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// MonthStatDTO servicios de un mes ("2026-03").
type MonthStatDTO struct {
	Month      string          `json:"month"`
	Label      string          `json:"label"` // ej: "Marzo 2026"
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"totalValue"`
}
