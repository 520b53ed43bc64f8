package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneratePreBillRequest periodo (YYYY-MM-DD, inclusivo) y EPS opcional a prefacturar.
type GeneratePreBillRequest struct {
	CompanyID   string `json:"companyId"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
	Insurer     string `json:"insurer"`
	Notes       string `json:"notes"`
}

// PreBillFilter filtros del listado de prefacturas.
type PreBillFilter struct {
	CompanyID string `query:"companyId"`
	Status    string `query:"status"`
	Insurer   string `query:"insurer"`
	Search    string `query:"search"`
	PageRequest
}

// PreBillResponse cabecera de una prefactura; Items solo se llena en el detalle.
type PreBillResponse struct {
	ID            string                  `json:"id"`
	CompanyID     string                  `json:"companyId"`
	Number        string                  `json:"number"`
	PeriodStart   string                  `json:"periodStart"`
	PeriodEnd     string                  `json:"periodEnd"`
	Insurer       string                  `json:"insurer"`
	Status        string                  `json:"status"`
	ItemCount     int                     `json:"itemCount"`
	Subtotal      decimal.Decimal         `json:"subtotal"`
	CopayTotal    decimal.Decimal         `json:"copayTotal"`
	ObjectedTotal decimal.Decimal         `json:"objectedTotal"`
	NetTotal      decimal.Decimal         `json:"netTotal"`
	Notes         string                  `json:"notes"`
	IssuedAt      *time.Time              `json:"issuedAt,omitempty"`
	CancelledAt   *time.Time              `json:"cancelledAt,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
	Items         []ServiceRecordResponse `json:"items,omitempty"`
}
