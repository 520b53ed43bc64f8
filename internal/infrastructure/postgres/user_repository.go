package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

var userColumns = columns{
	repository.FieldID:      {expr: "u.id"},
	repository.FieldActive:  {expr: "u.active"},
	repository.FieldRole:    {expr: "u.role"},
	repository.FieldCompany: {expr: "u.assigned_companies", array: true},
	repository.FieldSearch:  {search: []string{"u.name", "u.email"}},
}

const userSelect = `
	SELECT u.id, u.name, u.email, u.password_hash, u.role, u.assigned_companies, u.can_view_all_companies,
	       u.custom_permissions, u.active, u.failed_login_attempts, u.locked_until, u.last_login_at,
	       u.created_by, u.updated_by, u.created_at, u.updated_at
	FROM users u`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, assigned_companies, can_view_all_companies,
			custom_permissions, active, failed_login_attempts, locked_until, last_login_at,
			created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, nonNil(u.AssignedCompanies), u.CanViewAllCompanies,
		permissionsOrEmpty(u.CustomPermissions), u.Active, u.FailedLoginAttempts, u.LockedUntil, u.LastLoginAt,
		u.CreatedBy, u.UpdatedBy, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID. Devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, userSelect+` WHERE u.id = $1`, id)
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, userSelect+` WHERE lower(u.email) = lower($1) LIMIT 1`, email)
}

func (r *UserRepo) findOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Update actualiza los datos administrables del usuario. Contador, bloqueo y último acceso
// tienen sus propias sentencias para no pisar los cambios de un login concurrente.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE users SET name = $2, email = $3, password_hash = $4, role = $5, assigned_companies = $6,
			can_view_all_companies = $7, custom_permissions = $8, active = $9, updated_by = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, nonNil(u.AssignedCompanies),
		u.CanViewAllCompanies, permissionsOrEmpty(u.CustomPermissions), u.Active, u.UpdatedBy, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// RegisterFailedLogin incrementa failed_login_attempts sobre la fila; las expresiones del SET
// leen los valores previos, y el bloqueo de fila de UPDATE serializa los intentos concurrentes.
func (r *UserRepo) RegisterFailedLogin(ctx context.Context, id string, maxAttempts int, lockUntil, now time.Time) (int, *time.Time, error) {
	query := `
		UPDATE users SET
			failed_login_attempts = CASE WHEN locked_until <= $4 THEN 1 ELSE failed_login_attempts + 1 END,
			locked_until = CASE
				WHEN (CASE WHEN locked_until <= $4 THEN 1 ELSE failed_login_attempts + 1 END) >= $2 THEN $3
				WHEN locked_until <= $4 THEN NULL
				ELSE locked_until
			END,
			updated_at = $4
		WHERE id = $1
		RETURNING failed_login_attempts, locked_until`
	var attempts int
	var lockedUntil *time.Time
	if err := r.q.QueryRow(ctx, query, id, maxAttempts, lockUntil, now).Scan(&attempts, &lockedUntil); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil, domain.ErrUserNotFound
		}
		return 0, nil, fmt.Errorf("register failed login: %w", err)
	}
	return attempts, lockedUntil, nil
}

// RegisterSuccessfulLogin no toca rol, empresas ni estado: solo contador, bloqueo y último acceso.
func (r *UserRepo) RegisterSuccessfulLogin(ctx context.Context, id string, now time.Time) (bool, error) {
	query := `
		UPDATE users SET failed_login_attempts = 0, locked_until = NULL, last_login_at = $2, updated_at = $2
		WHERE id = $1 AND active AND (locked_until IS NULL OR locked_until <= $2)`
	tag, err := r.q.Exec(ctx, query, id, now)
	if err != nil {
		return false, fmt.Errorf("register login: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Unlock reinicia contador y bloqueo.
func (r *UserRepo) Unlock(ctx context.Context, id, updatedBy string, now time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET failed_login_attempts = 0, locked_until = NULL, updated_by = $2, updated_at = $3 WHERE id = $1`,
		id, updatedBy, now)
	if err != nil {
		return fmt.Errorf("unlock user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdatePassword actualiza el hash de la contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash, updatedBy string, now time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_by = $3, updated_at = $4 WHERE id = $1`,
		id, hash, updatedBy, now)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List lista usuarios que cumplen f, ordenados por nombre.
func (r *UserRepo) List(ctx context.Context, f repository.Filter, page repository.Page) ([]*entity.User, int, error) {
	where, args, err := userColumns.where(f, 1)
	if err != nil {
		return nil, 0, err
	}
	total, err := count(ctx, r.q, "users u", where, args)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	limit, args := paginate(page, args)
	rows, err := r.q.Query(ctx, userSelect+" "+where+" ORDER BY u.name"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, total, rows.Err()
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var lockedUntil, lastLogin *time.Time
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.AssignedCompanies, &u.CanViewAllCompanies,
		&u.CustomPermissions, &u.Active, &u.FailedLoginAttempts, &lockedUntil, &lastLogin,
		&u.CreatedBy, &u.UpdatedBy, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.LockedUntil, u.LastLoginAt = lockedUntil, lastLogin
	return &u, nil
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func permissionsOrEmpty(ps []entity.Permission) []entity.Permission {
	if ps == nil {
		return []entity.Permission{}
	}
	return ps
}
