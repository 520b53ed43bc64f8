package repository

import (
	"context"

	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

// PatientRepository puerto de persistencia para pacientes.
type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	GetByID(ctx context.Context, id string) (*entity.Patient, error)
	GetByDocument(ctx context.Context, documentType, documentNumber string) (*entity.Patient, error)
	Update(ctx context.Context, patient *entity.Patient) error
	List(ctx context.Context, f Filter, page Page) ([]*entity.Patient, int, error)
}
