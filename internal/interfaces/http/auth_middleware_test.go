package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Auditoria-api/internal/application/usecase"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Auditoria-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Auditoria-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "auditoria-api-test"
	testExpMin    = 60
)

// userStore implementa el authenticator del middleware sobre un mapa.
type userStore struct {
	users map[string]*entity.User
	err   error
}

func (s *userStore) Authenticate(_ context.Context, userID string) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

func storeWith(role string) *userStore {
	return &userStore{users: map[string]*entity.User{
		testUserID: {
			ID: testUserID, Role: role, Active: true,
			AssignedCompanies: []string{testCompanyID},
		},
	}}
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para validar el JWT y cargar el usuario
//   - RequirePermission para autorizar (module, action)
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(store *userStore, module, action string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, store),
		apphttp.RequirePermission(usecase.NewModuleService(), module, action),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

// tokenFor genera un JWT para testUserID con el rol indicado.
func tokenFor(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePermission_AuditorPuedeAuditar(t *testing.T) {
	app := buildTestApp(storeWith(entity.RoleAuditor), access.ModuleServices, access.ActionAudit)
	resp := doRequest(t, app, tokenFor(t, entity.RoleAuditor))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleAuditor, body["role"])
}

func TestRequirePermission_ConsultaNoPuedeCrearServicios(t *testing.T) {
	app := buildTestApp(storeWith(entity.RoleConsulta), access.ModuleServices, access.ActionCreate)
	resp := doRequest(t, app, tokenFor(t, entity.RoleConsulta))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := bodyString(t, resp)
	assert.Contains(t, body, `"success":false`)
	assert.Contains(t, body, "FORBIDDEN")
}

func TestRequirePermission_SuperadminSiemprePasa(t *testing.T) {
	app := buildTestApp(storeWith(entity.RoleSuperAdmin), access.ModuleUsers, access.ActionDelete)
	resp := doRequest(t, app, tokenFor(t, entity.RoleSuperAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// El rol vigente sale de la base de datos: un token emitido como admin no sirve si el
// usuario fue degradado a consulta.
func TestRequirePermission_UsaRolActualNoElDelToken(t *testing.T) {
	app := buildTestApp(storeWith(entity.RoleConsulta), access.ModuleUsers, access.ActionCreate)
	resp := doRequest(t, app, tokenFor(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequirePermission_PermisoPersonalizado(t *testing.T) {
	store := storeWith(entity.RoleConsulta)
	store.users[testUserID].CustomPermissions = []entity.Permission{
		{Module: access.ModuleServices, Actions: []string{access.ActionRead, access.ActionAudit}},
	}
	app := buildTestApp(store, access.ModuleServices, access.ActionAudit)
	resp := doRequest(t, app, tokenFor(t, entity.RoleConsulta))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(storeWith(entity.RoleAdmin), access.ModuleUsers, access.ActionRead)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(storeWith(entity.RoleAdmin), access.ModuleUsers, access.ActionRead)
	resp := doRequest(t, app, "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(storeWith(entity.RoleAdmin), access.ModuleUsers, access.ActionRead)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_UsuarioEliminado_Retorna401(t *testing.T) {
	app := buildTestApp(&userStore{users: map[string]*entity.User{}}, access.ModuleUsers, access.ActionRead)
	resp := doRequest(t, app, tokenFor(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_CuentaBloqueada_Retorna403(t *testing.T) {
	app := buildTestApp(&userStore{err: domain.ErrAccountLocked}, access.ModuleUsers, access.ActionRead)
	resp := doRequest(t, app, tokenFor(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "ACCOUNT_LOCKED")
}

func TestAuthMiddleware_CargaUsuario(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, storeWith(entity.RoleFacturador)), func(c *fiber.Ctx) error {
		u := apphttp.CurrentUser(c)
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"role":      apphttp.GetRole(c),
			"companies": u.AssignedCompanies,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, entity.RoleFacturador))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		UserID    string   `json:"user_id"`
		Role      string   `json:"role"`
		Companies []string `json:"companies"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, entity.RoleFacturador, body.Role)
	assert.Equal(t, []string{testCompanyID}, body.Companies)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RateLimit
// ──────────────────────────────────────────────────────────────────────────────

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allow, s.err
}

func rateLimitedApp(l *stubLimiter) *fiber.App {
	app := fiber.New()
	app.Post("/login", apphttp.RateLimit(l, "login"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRateLimit_Excedido_Retorna429(t *testing.T) {
	l := &stubLimiter{allow: false}
	resp, err := rateLimitedApp(l).Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Len(t, l.keys, 1)
	assert.Contains(t, l.keys[0], "login:")
}

func TestRateLimit_RedisCaido_DejaPasar(t *testing.T) {
	l := &stubLimiter{err: context.DeadlineExceeded}
	resp, err := rateLimitedApp(l).Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, entity.RoleAuditor, testIssuer, testExpMin)
	require.NoError(t, err)

	userID, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, entity.RoleAuditor, role)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, entity.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

