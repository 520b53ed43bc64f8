package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// FieldCompany sobre usuarios significa "comparte al menos una empresa asignada".
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update escribe los datos administrables; no toca contador, bloqueo ni último acceso.
	Update(ctx context.Context, user *entity.User) error
	// RegisterFailedLogin suma un intento fallido en una sola sentencia. Si el bloqueo previo
	// ya venció (locked_until <= now) el contador vuelve a empezar; al llegar a maxAttempts
	// fija lockedUntil. Retorna el contador y el bloqueo resultantes.
	RegisterFailedLogin(ctx context.Context, id string, maxAttempts int, lockUntil, now time.Time) (int, *time.Time, error)
	// RegisterSuccessfulLogin limpia contador y bloqueo y fija last_login_at, solo si la cuenta
	// sigue activa y sin bloqueo vigente. false indica que no se actualizó ninguna fila.
	RegisterSuccessfulLogin(ctx context.Context, id string, now time.Time) (bool, error)
	// Unlock limpia contador y bloqueo sin tocar el resto de la fila.
	Unlock(ctx context.Context, id, updatedBy string, now time.Time) error
	// UpdatePassword cambia solo el hash de la contraseña.
	UpdatePassword(ctx context.Context, id, hash, updatedBy string, now time.Time) error
	List(ctx context.Context, f Filter, page Page) ([]*entity.User, int, error)
}
