package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

func TestNewSuperAdmin(t *testing.T) {
	u, err := newSuperAdmin(" Admin ", " Admin@IPS.co ", "clave-segura-1")
	require.NoError(t, err)

	assert.Equal(t, "admin@ips.co", u.Email)
	assert.Equal(t, "Admin", u.Name)
	assert.Equal(t, entity.RoleSuperAdmin, u.Role)
	assert.True(t, u.CanViewAllCompanies)
	assert.True(t, u.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("clave-segura-1")))
}

func TestNewSuperAdmin_Invalido(t *testing.T) {
	_, err := newSuperAdmin("x", "sin-arroba", "clave-segura-1")
	assert.Error(t, err)

	_, err = newSuperAdmin("x", "a@b.co", "corta")
	assert.Error(t, err)
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range []interface{ Name() string }{migrateCmd(), superadminCmd(), cie11Cmd()} {
		names[c.Name()] = true
	}
	assert.Equal(t, map[string]bool{"migrate": true, "superadmin": true, "cie11": true}, names)
}
