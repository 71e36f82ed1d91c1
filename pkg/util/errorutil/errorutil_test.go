package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leavePayload struct {
	Reason string `validate:"required"`
}

func TestToDomainError(t *testing.T) {
	validationErr := validator.New().Struct(leavePayload{})
	require.Error(t, validationErr)

	conflict := NewConflict("request was modified concurrently", nil)

	tests := []struct {
		name    string
		err     error
		code    string
		status  int
		details map[string]any
	}{
		{
			name:    "unique violation is a conflict",
			err:     fmt.Errorf("insert request: %w", &pgconn.PgError{Code: "23505", ConstraintName: "request_pkey"}),
			code:    CodeConflict,
			status:  http.StatusConflict,
			details: map[string]any{"constraint": "request_pkey"},
		},
		{
			name:    "foreign key violation is a validation failure",
			err:     &pgconn.PgError{Code: "23503", ConstraintName: "request_staff_id_fkey"},
			code:    CodeValidation,
			status:  http.StatusBadRequest,
			details: map[string]any{"constraint": "request_staff_id_fkey"},
		},
		{
			name:   "other postgres errors are internal",
			err:    &pgconn.PgError{Code: "40001"},
			code:   CodeInternal,
			status: http.StatusInternalServerError,
		},
		{
			name:    "validator errors list the failing fields",
			err:     validationErr,
			code:    CodeValidation,
			status:  http.StatusBadRequest,
			details: map[string]any{"Reason": "required"},
		},
		{
			name:    "no rows is not found",
			err:     fmt.Errorf("get request: %w", pgx.ErrNoRows),
			code:    CodeNotFound,
			status:  http.StatusNotFound,
			details: map[string]any{},
		},
		{
			name:   "fiber not found",
			err:    fiber.ErrNotFound,
			code:   CodeNotFound,
			status: http.StatusNotFound,
		},
		{
			name:   "fiber method not allowed",
			err:    fiber.NewError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			code:   "METHOD_NOT_ALLOWED",
			status: http.StatusMethodNotAllowed,
		},
		{
			name:   "fiber 503 is internal",
			err:    fiber.ErrServiceUnavailable,
			code:   CodeInternal,
			status: http.StatusServiceUnavailable,
		},
		{
			name:   "unknown errors are internal",
			err:    errors.New("connection reset"),
			code:   CodeInternal,
			status: http.StatusInternalServerError,
		},
		{
			name:   "wrapped domain errors pass through",
			err:    fmt.Errorf("approve: %w", conflict),
			code:   CodeConflict,
			status: http.StatusConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ToDomainError(tc.err)
			require.NotNil(t, got)
			assert.Equal(t, tc.code, got.Code)
			assert.Equal(t, tc.status, got.HTTPStatus)
			if tc.details != nil {
				assert.Equal(t, tc.details, got.Details)
			}
		})
	}
}

func TestToDomainError_Nil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}

func TestInternalErrorKeepsCause(t *testing.T) {
	cause := errors.New("pool closed")
	err := MapError(cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsCode(err, CodeInternal))
	assert.Equal(t, "internal server error: pool closed", err.Error())
}

func TestNewInvalidTransition(t *testing.T) {
	err := NewInvalidTransition("approve", "WITHDRAWN")

	assert.True(t, IsCode(err, CodeInvalidTransition))
	assert.False(t, IsCode(err, CodeConflict))
	assert.EqualError(t, err, "cannot approve a request that is withdrawn")
	assert.Equal(t, map[string]any{"action": "approve", "current_status": "WITHDRAWN"}, ToDomainError(err).Details)
	assert.Equal(t, http.StatusConflict, ToDomainError(err).HTTPStatus)
}
