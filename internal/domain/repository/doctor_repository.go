package repository

import (
	"context"

	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

// DoctorRepository puerto de persistencia para médicos.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	GetByID(ctx context.Context, id string) (*entity.Doctor, error)
	GetByProfessionalCard(ctx context.Context, card string) (*entity.Doctor, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
	List(ctx context.Context, f Filter, page Page) ([]*entity.Doctor, int, error)
}
