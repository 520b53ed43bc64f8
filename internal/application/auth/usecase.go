package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/application/usecase"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
	"github.com/jhoicas/Auditoria-api/pkg/jwt"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Policy política de bloqueo por intentos fallidos.
type Policy struct {
	MaxAttempts  int
	LockDuration time.Duration
}

// DefaultPolicy 5 intentos, 15 minutos de bloqueo.
var DefaultPolicy = Policy{MaxAttempts: 5, LockDuration: 15 * time.Minute}

// AuthUseCase casos de uso de autenticación: login, perfil actual y cambio de contraseña.
type AuthUseCase struct {
	userRepo repository.UserRepository
	modules  *usecase.ModuleService
	jwtCfg   JWTConfig
	policy   Policy
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, modules *usecase.ModuleService, jwtCfg JWTConfig, policy Policy) *AuthUseCase {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultPolicy.MaxAttempts
	}
	if policy.LockDuration <= 0 {
		policy.LockDuration = DefaultPolicy.LockDuration
	}
	return &AuthUseCase{userRepo: userRepo, modules: modules, jwtCfg: jwtCfg, policy: policy, now: time.Now}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Tras policy.MaxAttempts fallos seguidos la cuenta queda bloqueada policy.LockDuration;
// el intento que provoca el bloqueo ya retorna ErrAccountLocked.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y password son requeridos", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrAccountInactive
	}
	now := uc.now()
	if user.IsLocked(now) {
		return nil, domain.ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		attempts, lockedUntil, err := uc.userRepo.RegisterFailedLogin(ctx, user.ID, uc.policy.MaxAttempts, now.Add(uc.policy.LockDuration), now)
		if err != nil {
			return nil, err
		}
		if lockedUntil != nil && lockedUntil.After(now) {
			log.Warn().Str("user", user.ID).Int("attempts", attempts).Msg("cuenta bloqueada por intentos fallidos")
			return nil, domain.ErrAccountLocked
		}
		return nil, domain.ErrUnauthorized
	}

	ok, err := uc.userRepo.RegisterSuccessfulLogin(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// entre la lectura y la escritura la cuenta se desactivó o se bloqueó
		return nil, uc.rejection(ctx, user.ID)
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      usecase.ToUserResponse(user),
	}, nil
}

// rejection distingue por qué no se pudo registrar un login correcto.
func (uc *AuthUseCase) rejection(ctx context.Context, userID string) error {
	current, err := uc.userRepo.GetByID(ctx, userID)
	switch {
	case err != nil:
		return err
	case current == nil:
		return domain.ErrUnauthorized
	case !current.Active:
		return domain.ErrAccountInactive
	default:
		return domain.ErrAccountLocked
	}
}

// Authenticate carga el usuario del token. Se consulta en cada petición para que
// los cambios de rol, empresas o estado apliquen de inmediato.
func (uc *AuthUseCase) Authenticate(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrAccountInactive
	}
	if user.IsLocked(uc.now()) {
		return nil, domain.ErrAccountLocked
	}
	return user, nil
}

// Me retorna el usuario actual con sus permisos efectivos.
func (uc *AuthUseCase) Me(u *entity.User) dto.MeResponse {
	return dto.MeResponse{
		User:        usecase.ToUserResponse(u),
		Permissions: uc.modules.Effective(u),
	}
}

// ChangePassword cambia la contraseña del usuario actual verificando la vigente.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, u *entity.User, in dto.ChangePasswordRequest) error {
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return fmt.Errorf("%w: la contraseña actual no coincide", domain.ErrInvalidInput)
	}
	if in.NewPassword == in.CurrentPassword {
		return fmt.Errorf("%w: la nueva contraseña debe ser distinta", domain.ErrInvalidInput)
	}
	hash, err := usecase.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	now := uc.now()
	if err := uc.userRepo.UpdatePassword(ctx, u.ID, hash, u.ID, now); err != nil {
		return err
	}
	u.PasswordHash = hash
	u.UpdatedBy = u.ID
	u.UpdatedAt = now
	return nil
}
