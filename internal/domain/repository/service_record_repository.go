package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

// ServiceRecordRepository puerto de persistencia para servicios prestados.
type ServiceRecordRepository interface {
	Create(ctx context.Context, record *entity.ServiceRecord) error
	GetByID(ctx context.Context, id string) (*entity.ServiceRecord, error)
	// Update escribe el servicio solo si sigue activo y sin prefacturar; si no, ErrConflict.
	Update(ctx context.Context, record *entity.ServiceRecord) error
	List(ctx context.Context, f Filter, page Page) ([]*entity.ServiceRecord, int, error)

	// ListForUpdate devuelve todos los servicios que cumplen f bloqueando las filas
	// (SELECT ... FOR UPDATE). Solo tiene sentido dentro de una transacción.
	ListForUpdate(ctx context.Context, f Filter) ([]*entity.ServiceRecord, error)
	// AttachToPreBill marca los servicios como prefacturados.
	AttachToPreBill(ctx context.Context, ids []string, preBillID, userID string, now time.Time) error
	// ReleaseFromPreBill devuelve los servicios de la prefactura a su estado de auditoría.
	ReleaseFromPreBill(ctx context.Context, preBillID, userID string, now time.Time) error
	ListByPreBill(ctx context.Context, preBillID string) ([]*entity.ServiceRecord, error)
}
