package dto

import "time"

// CreatePatientRequest entrada para registrar un paciente. BirthDate en formato YYYY-MM-DD.
type CreatePatientRequest struct {
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	BirthDate      string `json:"birthDate"`
	Sex            string `json:"sex"`
	Insurer        string `json:"insurer"`
	Regime         string `json:"regime"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
}

// UpdatePatientRequest entrada para actualizar un paciente (campos opcionales).
type UpdatePatientRequest struct {
	DocumentType   *string `json:"documentType"`
	DocumentNumber *string `json:"documentNumber"`
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	BirthDate      *string `json:"birthDate"`
	Sex            *string `json:"sex"`
	Insurer        *string `json:"insurer"`
	Regime         *string `json:"regime"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Address        *string `json:"address"`
	Active         *bool   `json:"active"`
}

// PatientFilter filtros del listado de pacientes.
type PatientFilter struct {
	Search  string `query:"search"`
	Insurer string `query:"insurer"`
	Active  *bool  `query:"active"`
	PageRequest
}

// PatientResponse salida de un paciente.
type PatientResponse struct {
	ID             string    `json:"id"`
	DocumentType   string    `json:"documentType"`
	DocumentNumber string    `json:"documentNumber"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	FullName       string    `json:"fullName"`
	BirthDate      string    `json:"birthDate"`
	Age            int       `json:"age"`
	Sex            string    `json:"sex"`
	Insurer        string    `json:"insurer"`
	Regime         string    `json:"regime"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Address        string    `json:"address"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
