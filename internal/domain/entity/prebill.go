package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una prefactura.
const (
	PreBillStatusDraft     = "draft"
	PreBillStatusIssued    = "issued"
	PreBillStatusCancelled = "cancelled"
)

// PreBill borrador de factura que agrupa servicios auditados de un periodo.
type PreBill struct {
	ID            string
	CompanyID     string
	Number        string // PF-000001, consecutivo por empresa
	PeriodStart   time.Time
	PeriodEnd     time.Time
	Insurer       string // EPS; vacío = todas
	Status        string
	ItemCount     int
	Subtotal      decimal.Decimal
	CopayTotal    decimal.Decimal
	ObjectedTotal decimal.Decimal
	NetTotal      decimal.Decimal
	Notes         string
	IssuedAt      *time.Time
	CancelledAt   *time.Time
	Active        bool
	CreatedBy     string
	UpdatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ComputeTotals recalcula los totales a partir de los servicios incluidos.
func (p *PreBill) ComputeTotals(items []*ServiceRecord) {
	subtotal, copay, objected := decimal.Zero, decimal.Zero, decimal.Zero
	for _, s := range items {
		subtotal = subtotal.Add(s.TotalValue)
		copay = copay.Add(s.CopayValue)
		objected = objected.Add(s.ObjectedValue)
	}
	p.ItemCount = len(items)
	p.Subtotal = subtotal.Round(2)
	p.CopayTotal = copay.Round(2)
	p.ObjectedTotal = objected.Round(2)
	p.NetTotal = subtotal.Sub(copay).Sub(objected).Round(2)
}
