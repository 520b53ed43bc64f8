package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de auditoría de un servicio prestado.
const (
	ServiceStatusPending  = "pending"  // registrado, sin auditar
	ServiceStatusApproved = "approved" // auditado sin glosa
	ServiceStatusObjected = "objected" // auditado con glosa parcial
	ServiceStatusBilled   = "billed"   // incluido en una prefactura
)

// Tipos de servicio.
const (
	ServiceTypeConsulta        = "consulta"
	ServiceTypeProcedimiento   = "procedimiento"
	ServiceTypeUrgencia        = "urgencia"
	ServiceTypeHospitalizacion = "hospitalizacion"
	ServiceTypeMedicamento     = "medicamento"
)

// ValidServiceType informa si t es un tipo de servicio conocido.
func ValidServiceType(t string) bool {
	switch t {
	case ServiceTypeConsulta, ServiceTypeProcedimiento, ServiceTypeUrgencia,
		ServiceTypeHospitalizacion, ServiceTypeMedicamento:
		return true
	}
	return false
}

// ServiceRecord servicio de salud prestado a un paciente por una empresa.
type ServiceRecord struct {
	ID                  string
	CompanyID           string
	PatientID           string
	DoctorID            string
	ServiceDate         time.Time
	ServiceType         string
	ProcedureCode       string // CUPS
	Description         string
	DiagnosisCode       string // CIE-11 principal
	RelatedDiagnoses    []string
	AuthorizationNumber string
	Quantity            int
	UnitValue           decimal.Decimal
	TotalValue          decimal.Decimal
	CopayValue          decimal.Decimal
	Status              string
	AuditNotes          string
	ObjectedValue       decimal.Decimal
	AuditedBy           string
	AuditedAt           *time.Time
	PreBillID           *string
	Active              bool
	CreatedBy           string
	UpdatedBy           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Editable informa si el servicio aún puede modificarse (no está prefacturado).
func (s *ServiceRecord) Editable() bool {
	return s.PreBillID == nil && s.Status != ServiceStatusBilled
}

// Billable informa si el servicio puede incluirse en una prefactura.
func (s *ServiceRecord) Billable() bool {
	if !s.Active || s.PreBillID != nil {
		return false
	}
	if s.Status != ServiceStatusApproved && s.Status != ServiceStatusObjected {
		return false
	}
	return s.ObjectedValue.LessThan(s.TotalValue)
}
