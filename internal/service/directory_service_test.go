package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/leave-service/internal/domain"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

func TestDirectoryService_ListEmployees(t *testing.T) {
	svc := NewDirectoryService(DirectoryDependencies{EmployeeRepo: newFakeEmployeeRepo(directoryFixture()...)})

	employees, err := svc.ListEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, len(directoryFixture()))
	assert.Equal(t, int64(1), employees[0].StaffID)

	empty := NewDirectoryService(DirectoryDependencies{EmployeeRepo: newFakeEmployeeRepo()})
	employees, err = empty.ListEmployees(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
}

func TestDirectoryService_FindEmployee(t *testing.T) {
	svc := NewDirectoryService(DirectoryDependencies{EmployeeRepo: newFakeEmployeeRepo(directoryFixture()...)})
	ctx := context.Background()

	e, err := svc.FindEmployee(ctx, "derek tan")
	require.NoError(t, err)
	assert.Equal(t, int64(2), e.StaffID)

	e, err = svc.FindEmployee(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, int64(10), e.StaffID)

	_, err = svc.FindEmployee(ctx, "Zed")
	require.Error(t, err)
	assert.Equal(t, "Employee not found.", apperrors.ToDomainError(err).Message)
}

func TestDirectoryService_CreateEmployee(t *testing.T) {
	repo := newFakeEmployeeRepo(directoryFixture()...)
	svc := NewDirectoryService(DirectoryDependencies{EmployeeRepo: repo})
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, &domain.Employee{
		StaffID: 40, FirstName: "Ivy", LastName: "Ong", Position: "Intern",
		Country: "Singapore", Email: " ivy@example.com ", ReportingManager: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "ivy@example.com", created.Email)
	assert.Equal(t, domain.RoleStaff, created.Role)

	_, err = svc.CreateEmployee(ctx, &domain.Employee{StaffID: 41, Email: "IVY@example.com"})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 409, domainErr.HTTPStatus)
	assert.Equal(t, "Employee already exists.", domainErr.Message)
}
