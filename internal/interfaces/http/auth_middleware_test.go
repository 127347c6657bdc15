package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/warehouse-api/internal/interfaces/http"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/warehouse-api/pkg/jwt"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testOwnerID   = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "warehouse-api-test"
	testExpMin    = 60
)

// fakeResolver resuelve sólo los usuarios que conoce; el resto es 401.
type fakeResolver map[string]entity.Actor

func (f fakeResolver) ResolveActor(_ context.Context, userID string) (entity.Actor, error) {
	a, ok := f[userID]
	if !ok {
		return entity.Actor{}, domain.NewAuthenticationError("User no longer exists")
	}
	return a, nil
}

func knownStaff() fakeResolver {
	owner := testOwnerID
	return fakeResolver{testUserID: {ID: testUserID, Role: entity.RoleStaff, OwnerID: &owner, IsActive: true}}
}

// buildTestApp app mínima con AuthMiddleware y un handler que devuelve el actor.
func buildTestApp(resolver apphttp.ActorResolver) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop(), false)})
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret, resolver), func(c *fiber.Ctx) error {
		a := apphttp.GetActor(c)
		return c.JSON(fiber.Map{"id": a.ID, "role": a.Role})
	})
	return app
}

func bearer(t *testing.T, userID string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, testOwnerID, "STAFF", testIssuer, expMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest ejecuta GET /protected y decodifica el cuerpo JSON.
func doRequest(t *testing.T, app *fiber.App, authHeader string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), "cuerpo: %s", raw)
	return resp.StatusCode, body
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_RechazaPeticionesSinTokenValido(t *testing.T) {
	app := buildTestApp(knownStaff())

	tests := []struct {
		name    string
		header  string
		code    string
		message string
	}{
		{"sin cabecera", "", "MISSING_TOKEN", "Authorization header is required"},
		{"esquema distinto de Bearer", "Basic abc", "INVALID_TOKEN", "Expected format: Bearer <token>"},
		{"token mal formado", "Bearer no-es-un-jwt", "INVALID_TOKEN", "Invalid or expired token"},
		{"token expirado", bearer(t, testUserID, -5), "INVALID_TOKEN", "Invalid or expired token"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doRequest(t, app, tc.header)
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.code, errorCode(body))
			assert.Equal(t, tc.message, body["message"])
		})
	}
}

func TestAuthMiddleware_TokenFirmadoConOtroSecreto(t *testing.T) {
	app := buildTestApp(knownStaff())
	tok, err := pkgjwt.Generate("otro-secreto", testUserID, testOwnerID, "STAFF", testIssuer, testExpMin)
	require.NoError(t, err)

	status, body := doRequest(t, app, "Bearer "+tok)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", errorCode(body))
}

func TestAuthMiddleware_UsuarioEliminadoDevuelve401(t *testing.T) {
	// Caso 1: token válido de un usuario que ya no existe.
	app := buildTestApp(fakeResolver{})
	status, body := doRequest(t, app, bearer(t, testUserID, testExpMin))

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, domain.CodeAuthentication, errorCode(body))
	assert.Equal(t, "User no longer exists", body["message"])
}

func TestAuthMiddleware_TokenValidoCargaElActor(t *testing.T) {
	app := buildTestApp(knownStaff())
	status, body := doRequest(t, app, bearer(t, testUserID, testExpMin))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, testUserID, body["id"])
	assert.Equal(t, "STAFF", body["role"])
}

func TestGetActor_SinMiddlewareDevuelveActorVacio(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		a := apphttp.GetActor(c)
		assert.Empty(t, a.ID)
		assert.False(t, a.IsActive)
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// ErrorHandler
// ──────────────────────────────────────────────────────────────────────────────

func errorApp(exposeStack bool, err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop(), exposeStack)})
	app.Get("/boom", func(c *fiber.Ctx) error { return err })
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorHandler_AppErrorUsaSuCodigoYDetalles(t *testing.T) {
	err := domain.NewValidationError("Insufficient stock").WithDetails(map[string]any{"productId": "p1"})
	status, body := get(t, errorApp(false, err), "/boom")

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Insufficient stock", body["message"])
	assert.Equal(t, domain.CodeValidation, errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "p1", details["productId"])
}

func TestErrorHandler_CodigosPorTipo(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewAuthorizationError("nope"), 403, "AUTHORIZATION_ERROR"},
		{domain.NewNotFoundError("Store"), 404, "NOT_FOUND"},
		{domain.NewConflictError("dup"), 409, "CONFLICT_ERROR"},
		{domain.NewAuthenticationError("bad"), 401, "AUTHENTICATION_ERROR"},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			status, body := get(t, errorApp(false, tc.err), "/boom")
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, errorCode(body))
		})
	}
}

func TestErrorHandler_RutaInexistente(t *testing.T) {
	status, body := get(t, errorApp(false, nil), "/no-existe")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, domain.CodeNotFound, errorCode(body))
}

func TestErrorHandler_ErrorNoTipadoOcultaDetallesEnProduccion(t *testing.T) {
	status, body := get(t, errorApp(false, errors.New("pq: connection refused")), "/boom")

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, apphttp.CodeInternal, errorCode(body))
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, body, "stack")
}

func TestErrorHandler_ErrorNoTipadoConStackEnDesarrollo(t *testing.T) {
	status, body := get(t, errorApp(true, errors.New("pq: connection refused")), "/boom")

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "pq: connection refused", body["message"])
	assert.NotEmpty(t, body["stack"])
}
