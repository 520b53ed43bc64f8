package entity

import "time"

// CIE11Code entrada de la tabla de referencia de diagnósticos CIE-11.
type CIE11Code struct {
	ID          string
	Code        string
	Description string
	Chapter     string
	MinAge      *int   // nil = sin límite inferior
	MaxAge      *int   // nil = sin límite superior
	Sex         string // "" = ambos; M o F restringe
	Billable    bool
	Active      bool
	CreatedBy   string
	UpdatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
