package dto

import "time"

// CreateCIE11Request entrada para registrar un código del catálogo.
type CreateCIE11Request struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Chapter     string `json:"chapter"`
	MinAge      *int   `json:"minAge"`
	MaxAge      *int   `json:"maxAge"`
	Sex         string `json:"sex"`
	Billable    *bool  `json:"billable"` // nil = true
}

// UpdateCIE11Request entrada para actualizar un código (campos opcionales).
// ClearMinAge/ClearMaxAge quitan el límite correspondiente.
type UpdateCIE11Request struct {
	Description *string `json:"description"`
	Chapter     *string `json:"chapter"`
	MinAge      *int    `json:"minAge"`
	MaxAge      *int    `json:"maxAge"`
	ClearMinAge bool    `json:"clearMinAge"`
	ClearMaxAge bool    `json:"clearMaxAge"`
	Sex         *string `json:"sex"`
	Billable    *bool   `json:"billable"`
	Active      *bool   `json:"active"`
}

// CIE11Filter búsqueda en el catálogo: por prefijo de código o fragmento de descripción.
type CIE11Filter struct {
	Search   string `query:"search"`
	Billable *bool  `query:"billable"`
	Active   *bool  `query:"active"`
	PageRequest
}

// CIE11Response salida de un código del catálogo.
type CIE11Response struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Chapter     string    `json:"chapter"`
	MinAge      *int      `json:"minAge"`
	MaxAge      *int      `json:"maxAge"`
	Sex         string    `json:"sex"`
	Billable    bool      `json:"billable"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
