package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

// DirectoryService exposes the employee directory.
type DirectoryService struct {
	employees repository.EmployeeRepository
}

// DirectoryDependencies bundles repositories for the directory service.
type DirectoryDependencies struct {
	EmployeeRepo repository.EmployeeRepository
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{employees: deps.EmployeeRepo}
}

// ListEmployees returns every employee ordered by staff id.
func (s *DirectoryService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	employees, err := s.employees.List(ctx, repository.EmployeeFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if employees == nil {
		employees = []domain.Employee{}
	}
	return employees, nil
}

// FindEmployee matches name against full names first, then first names, case-insensitively.
func (s *DirectoryService) FindEmployee(ctx context.Context, name string) (*domain.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequest("name is required")
	}
	employee, err := s.employees.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundMessage("Employee not found.", map[string]any{"name": name})
		}
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// CreateEmployee inserts a directory record. Emails are unique.
func (s *DirectoryService) CreateEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if employee == nil {
		return nil, apperrors.NewBadRequest("employee is required")
	}
	employee.Email = strings.TrimSpace(employee.Email)

	if _, err := s.employees.GetByEmail(ctx, employee.Email); err == nil {
		return nil, errEmployeeExists(employee.Email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	if employee.Role == 0 {
		employee.Role = domain.RoleStaff
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		mapped := apperrors.MapError(err)
		if apperrors.IsCode(mapped, apperrors.CodeConflict) {
			return nil, errEmployeeExists(employee.Email)
		}
		return nil, mapped
	}
	return employee, nil
}

func errEmployeeExists(email string) error {
	return apperrors.NewConflict("Employee already exists.", map[string]any{"email": email})
}
