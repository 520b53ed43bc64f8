package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateServiceRecordRequest entrada para registrar un servicio prestado. ServiceDate en formato YYYY-MM-DD.
// TotalValue se calcula como Quantity × UnitValue.
type CreateServiceRecordRequest struct {
	CompanyID           string          `json:"companyId"`
	PatientID           string          `json:"patientId"`
	DoctorID            string          `json:"doctorId"`
	ServiceDate         string          `json:"serviceDate"`
	ServiceType         string          `json:"serviceType"`
	ProcedureCode       string          `json:"procedureCode"`
	Description         string          `json:"description"`
	DiagnosisCode       string          `json:"diagnosisCode"`
	RelatedDiagnoses    []string        `json:"relatedDiagnoses"`
	AuthorizationNumber string          `json:"authorizationNumber"`
	Quantity            int             `json:"quantity"`
	UnitValue           decimal.Decimal `json:"unitValue"`
	CopayValue          decimal.Decimal `json:"copayValue"`
}

// UpdateServiceRecordRequest entrada para actualizar un servicio no prefacturado (campos opcionales).
type UpdateServiceRecordRequest struct {
	PatientID           *string          `json:"patientId"`
	DoctorID            *string          `json:"doctorId"`
	ServiceDate         *string          `json:"serviceDate"`
	ServiceType         *string          `json:"serviceType"`
	ProcedureCode       *string          `json:"procedureCode"`
	Description         *string          `json:"description"`
	DiagnosisCode       *string          `json:"diagnosisCode"`
	RelatedDiagnoses    *[]string        `json:"relatedDiagnoses"`
	AuthorizationNumber *string          `json:"authorizationNumber"`
	Quantity            *int             `json:"quantity"`
	UnitValue           *decimal.Decimal `json:"unitValue"`
	CopayValue          *decimal.Decimal `json:"copayValue"`
}

// AuditServiceRecordRequest resultado de la auditoría: approved u objected (con valor glosado).
type AuditServiceRecordRequest struct {
	Status        string          `json:"status"`
	Notes         string          `json:"notes"`
	ObjectedValue decimal.Decimal `json:"objectedValue"`
}

// ServiceRecordFilter filtros del listado de servicios. Fechas en formato YYYY-MM-DD.
type ServiceRecordFilter struct {
	CompanyID     string `query:"companyId"`
	PatientID     string `query:"patientId"`
	DoctorID      string `query:"doctorId"`
	Status        string `query:"status"`
	ServiceType   string `query:"serviceType"`
	DiagnosisCode string `query:"diagnosisCode"`
	Insurer       string `query:"insurer"`
	From          string `query:"from"`
	To            string `query:"to"`
	Search        string `query:"search"`
	PageRequest
}

// ServiceRecordResponse salida de un servicio prestado.
type ServiceRecordResponse struct {
	ID                  string          `json:"id"`
	CompanyID           string          `json:"companyId"`
	PatientID           string          `json:"patientId"`
	DoctorID            string          `json:"doctorId"`
	ServiceDate         string          `json:"serviceDate"`
	ServiceType         string          `json:"serviceType"`
	ProcedureCode       string          `json:"procedureCode"`
	Description         string          `json:"description"`
	DiagnosisCode       string          `json:"diagnosisCode"`
	RelatedDiagnoses    []string        `json:"relatedDiagnoses"`
	AuthorizationNumber string          `json:"authorizationNumber"`
	Quantity            int             `json:"quantity"`
	UnitValue           decimal.Decimal `json:"unitValue"`
	TotalValue          decimal.Decimal `json:"totalValue"`
	CopayValue          decimal.Decimal `json:"copayValue"`
	Status              string          `json:"status"`
	AuditNotes          string          `json:"auditNotes"`
	ObjectedValue       decimal.Decimal `json:"objectedValue"`
	AuditedBy           string          `json:"auditedBy,omitempty"`
	AuditedAt           *time.Time      `json:"auditedAt,omitempty"`
	PreBillID           *string         `json:"preBillId,omitempty"`
	Active              bool            `json:"active"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}
