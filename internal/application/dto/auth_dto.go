package dto

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token JWT y datos del usuario autenticado.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"` // segundos
	User      UserResponse `json:"user"`
}

// ChangePasswordRequest cambio de contraseña del usuario actual.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// MeResponse usuario actual con sus permisos efectivos por módulo.
type MeResponse struct {
	User        UserResponse        `json:"user"`
	Permissions map[string][]string `json:"permissions"`
}
