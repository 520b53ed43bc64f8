package entity

import "time"

// Doctor profesional de la salud vinculado a una empresa.
type Doctor struct {
	ID               string
	CompanyID        string
	FirstName        string
	LastName         string
	DocumentType     string
	DocumentNumber   string
	ProfessionalCard string // tarjeta profesional, única
	Specialty        string
	Email            string
	Phone            string
	Active           bool
	CreatedBy        string
	UpdatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FullName nombre completo para reportes y PDF.
func (d *Doctor) FullName() string {
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}
