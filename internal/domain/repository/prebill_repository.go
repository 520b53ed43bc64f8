package repository

import (
	"context"

	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

// PreBillRepository puerto de persistencia para prefacturas.
type PreBillRepository interface {
	Create(ctx context.Context, preBill *entity.PreBill) error
	GetByID(ctx context.Context, id string) (*entity.PreBill, error)
	// Transition guarda estado, fechas y auditoría solo si el estado actual sigue siendo from;
	// si otra operación ya lo cambió retorna ErrConflict.
	Transition(ctx context.Context, preBill *entity.PreBill, from string) error
	List(ctx context.Context, f Filter, page Page) ([]*entity.PreBill, int, error)
	// NextNumber reserva el siguiente consecutivo de prefactura de la empresa.
	NextNumber(ctx context.Context, companyID string) (int64, error)
}
