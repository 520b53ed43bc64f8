package entity

import "time"

// Tipos de documento de identidad (Colombia).
const (
	DocTypeCC = "CC" // cédula de ciudadanía
	DocTypeTI = "TI" // tarjeta de identidad
	DocTypeRC = "RC" // registro civil
	DocTypeCE = "CE" // cédula de extranjería
	DocTypePA = "PA" // pasaporte
)

// ValidDocumentType informa si t es un tipo de documento aceptado.
func ValidDocumentType(t string) bool {
	switch t {
	case DocTypeCC, DocTypeTI, DocTypeRC, DocTypeCE, DocTypePA:
		return true
	}
	return false
}

// Sexo biológico registrado del paciente.
const (
	SexMale          = "M"
	SexFemale        = "F"
	SexIndeterminate = "I"
)

// Patient paciente del registro compartido (no pertenece a una empresa).
type Patient struct {
	ID             string
	DocumentType   string
	DocumentNumber string
	FirstName      string
	LastName       string
	BirthDate      time.Time
	Sex            string
	Insurer        string // EPS
	Regime         string // contributivo, subsidiado, particular
	Phone          string
	Email          string
	Address        string
	Active         bool
	CreatedBy      string
	UpdatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName nombre completo.
func (p *Patient) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// AgeAt edad cumplida en años a la fecha at.
func (p *Patient) AgeAt(at time.Time) int {
	if p.BirthDate.IsZero() || at.Before(p.BirthDate) {
		return 0
	}
	age := at.Year() - p.BirthDate.Year()
	if at.Month() < p.BirthDate.Month() ||
		(at.Month() == p.BirthDate.Month() && at.Day() < p.BirthDate.Day()) {
		age--
	}
	return age
}
