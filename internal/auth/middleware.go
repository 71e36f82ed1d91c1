package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

const (
	principalKey = "auth_principal"

	// StaffIDHeader carries the caller's staff id when no bearer token is presented.
	StaffIDHeader = "X-Staff-ID"
)

// Principal represents the authenticated caller.
type Principal struct {
	Employee *domain.Employee
	Role     domain.Role
}

// EmployeeLookup loads employees for token principals.
type EmployeeLookup interface {
	GetByID(ctx context.Context, staffID int64) (*domain.Employee, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens    *TokenManager
	employees EmployeeLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, employees EmployeeLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, employees: employees}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}
	return m.Optional(c)
}

// Optional loads the principal when an Authorization header is present. An invalid token is
// rejected; a missing one lets the request through anonymously.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	employee, err := m.employees.GetByID(c.UserContext(), claims.StaffID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("employee not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{Employee: employee, Role: employee.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}

// ActorID identifies the caller: the token principal first, then the X-Staff-ID header.
// It returns nil when neither is present.
func ActorID(c *fiber.Ctx) (*int64, error) {
	if principal, ok := PrincipalFromContext(c); ok && principal.Employee != nil {
		id := principal.Employee.StaffID
		return &id, nil
	}
	raw := strings.TrimSpace(c.Get(StaffIDHeader))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperrors.NewBadRequest("X-Staff-ID must be a positive integer")
	}
	return &id, nil
}
