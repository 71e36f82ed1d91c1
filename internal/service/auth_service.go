package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

const minPasswordLength = 8

// AuthResult carries an authenticated employee and their access token.
type AuthResult struct {
	Employee  *domain.Employee
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates signup and login for directory employees.
type AuthService struct {
	employees  repository.EmployeeRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	TokenManager *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	tokens := deps.TokenManager
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	}
	return &AuthService{
		employees:  deps.EmployeeRepo,
		tokenMgr:   tokens,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Signup sets the first password of an existing employee, identified by email.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	employee, err := s.employees.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundMessage("Employee not found.", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	if employee.PasswordHash != nil && *employee.PasswordHash != "" {
		return nil, apperrors.NewConflict("account already registered", nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.employees.SetPasswordHash(ctx, employee.StaffID, hash); err != nil {
		return nil, apperrors.MapError(err)
	}
	employee.PasswordHash = &hash

	return s.issue(employee)
}

// Login authenticates an employee by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	employee, err := s.employees.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if employee.PasswordHash == nil || *employee.PasswordHash == "" {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(*employee.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return s.issue(employee)
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, employee *domain.Employee, currentPassword, newPassword string) error {
	if employee == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if employee.PasswordHash == nil || auth.ComparePassword(*employee.PasswordHash, currentPassword) != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return apperrors.MapError(s.employees.SetPasswordHash(ctx, employee.StaffID, hash))
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(employee *domain.Employee) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(employee.StaffID, employee.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Employee: employee, Token: token, ExpiresAt: exp}, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"password": "min"})
	}
	return nil
}
