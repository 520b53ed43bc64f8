package dto

import "time"

// CreateDoctorRequest entrada para registrar un médico.
type CreateDoctorRequest struct {
	CompanyID        string `json:"companyId"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DocumentType     string `json:"documentType"`
	DocumentNumber   string `json:"documentNumber"`
	ProfessionalCard string `json:"professionalCard"`
	Specialty        string `json:"specialty"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
}

// UpdateDoctorRequest entrada para actualizar un médico (campos opcionales).
type UpdateDoctorRequest struct {
	CompanyID        *string `json:"companyId"`
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	DocumentType     *string `json:"documentType"`
	DocumentNumber   *string `json:"documentNumber"`
	ProfessionalCard *string `json:"professionalCard"`
	Specialty        *string `json:"specialty"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	Active           *bool   `json:"active"`
}

// DoctorFilter filtros del listado de médicos.
type DoctorFilter struct {
	CompanyID string `query:"companyId"`
	Search    string `query:"search"`
	Specialty string `query:"specialty"`
	Active    *bool  `query:"active"`
	PageRequest
}

// DoctorResponse salida de un médico.
type DoctorResponse struct {
	ID               string    `json:"id"`
	CompanyID        string    `json:"companyId"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	FullName         string    `json:"fullName"`
	DocumentType     string    `json:"documentType"`
	DocumentNumber   string    `json:"documentNumber"`
	ProfessionalCard string    `json:"professionalCard"`
	Specialty        string    `json:"specialty"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
