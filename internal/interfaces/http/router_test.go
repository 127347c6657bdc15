package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/warehouse-api/internal/interfaces/http"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/metrics"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func routerApp(deps apphttp.RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop(), false)})
	app.Use(apphttp.RequestLogger(logger.Nop()))
	apphttp.Router(app, deps)
	return app
}

func TestRouter_Health(t *testing.T) {
	// Caso 1: BD disponible.
	status, body := get(t, routerApp(apphttp.RouterDeps{JWTSecret: testJWTSecret, DB: fakePinger{}}), "/health")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	// Caso 2: BD caída.
	status, body = get(t, routerApp(apphttp.RouterDeps{JWTSecret: testJWTSecret, DB: fakePinger{err: errors.New("down")}}), "/health")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "down", body["database"])
}

func TestRouter_RutasProtegidasExigenToken(t *testing.T) {
	app := routerApp(apphttp.RouterDeps{JWTSecret: testJWTSecret})
	for _, path := range []string{"/api/stores", "/api/products/low-stock", "/api/transactions", "/api/users/summary", "/api/reports/dashboard", "/api/auth/me"} {
		t.Run(path, func(t *testing.T) {
			status, body := get(t, app, path)
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Equal(t, "MISSING_TOKEN", errorCode(body))
		})
	}
}

func TestRouter_LoginConCuerpoInvalido(t *testing.T) {
	app := routerApp(apphttp.RouterDeps{JWTSecret: testJWTSecret})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRouter_MetricsSoloSiHayGatherer(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))

	app := routerApp(apphttp.RouterDeps{JWTSecret: testJWTSecret, Gatherer: reg})
	_, _ = get(t, app, "/health")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "warehouse_http_request_duration_seconds")

	status, _ := get(t, routerApp(apphttp.RouterDeps{JWTSecret: testJWTSecret}), "/metrics")
	assert.Equal(t, fiber.StatusNotFound, status)
}
