package repository

import (
	"context"

	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

// CIE11Repository puerto de persistencia de la tabla de referencia CIE-11.
// FieldSearch busca por descripción normalizada (sin tildes).
type CIE11Repository interface {
	Create(ctx context.Context, code *entity.CIE11Code) error
	GetByID(ctx context.Context, id string) (*entity.CIE11Code, error)
	GetByCode(ctx context.Context, code string) (*entity.CIE11Code, error)
	Update(ctx context.Context, code *entity.CIE11Code) error
	List(ctx context.Context, f Filter, page Page) ([]*entity.CIE11Code, int, error)
}
