package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/api/http/handlers"
	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/observability"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

type renderedError struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newApp(metrics *observability.Metrics) *fiber.App {
	logger := zap.NewNop()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger, metrics)})
	RegisterMiddlewares(app, logger, metrics, 0)
	return app
}

func call(t *testing.T, app *fiber.App, method, target string) (*http.Response, renderedError) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil), -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body renderedError
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp, body
}

func TestErrorHandling_RendersDomainErrors(t *testing.T) {
	app := newApp(observability.NewMetrics())
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return apperrors.NewInvalidTransition("approve", "APPROVED")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("store down")
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("unexpected")
	})

	resp, body := call(t, app, http.MethodGet, "/conflict")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apperrors.CodeInvalidTransition, body.Error.Code)
	assert.Equal(t, "APPROVED", body.Error.Details["current_status"])

	resp, body = call(t, app, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", body.Error.Message)

	resp, body = call(t, app, http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, apperrors.CodeInternal, body.Error.Code)
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	app := newApp(nil)

	resp, body := call(t, app, http.MethodGet, "/nowhere")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apperrors.CodeNotFound, body.Error.Code)
}

func TestRequestID_EchoedOrGenerated(t *testing.T) {
	app := newApp(nil)
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(fiber.HeaderXRequestID, "abc-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(fiber.HeaderXRequestID))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(fiber.HeaderXRequestID), 36)
}

func TestRegisterRoutes_PublicAndProtected(t *testing.T) {
	metrics := observability.NewMetrics()
	app := newApp(metrics)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("leave-service", "test", nil),
		Employees:      handlers.NewEmployeesHandler(nil),
		Auth:           handlers.NewAuthHandler(nil),
		Teams:          handlers.NewTeamsHandler(nil, nil, nil),
		Requests:       handlers.NewRequestsHandler(nil, nil, nil),
		AuthMiddleware: auth.NewAuthMiddleware(nil, nil),
		Metrics:        metrics,
	})

	resp, _ := call(t, app, http.MethodGet, "/online")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/health/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := call(t, app, http.MethodPost, "/password/change")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apperrors.CodeUnauthorized, body.Error.Code)

	resp, _ = call(t, app, http.MethodGet, "/team/requests")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
