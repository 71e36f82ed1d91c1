package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/api/dto"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/events"
	"github.com/spec-kit/leave-service/internal/service"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

// DirectoryService is the subset of *service.DirectoryService used by handlers.
type DirectoryService interface {
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	FindEmployee(ctx context.Context, name string) (*domain.Employee, error)
	CreateEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error)
}

// AuthService is the subset of *service.AuthService used by handlers.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	ChangePassword(ctx context.Context, employee *domain.Employee, currentPassword, newPassword string) error
}

// HierarchyService is the subset of *service.HierarchyService used by handlers.
type HierarchyService interface {
	ResolveTeamsByManager(ctx context.Context, department string) (*service.ManagerGroups, error)
	ResolveTeamIDsForStaff(ctx context.Context, staffID int64) ([]int64, error)
	TeamDetails(ctx context.Context, managerName, department string) ([]domain.Employee, error)
}

// TeamService is the subset of *service.TeamService used by handlers.
type TeamService interface {
	ResolveCoMembers(ctx context.Context, teamIDs []int64, excludeStaffID int64) ([]int64, error)
	StaffIDsForTeam(ctx context.Context, teamID int64) ([]int64, error)
}

// RequestService is the subset of *service.RequestService used by handlers.
type RequestService interface {
	Create(ctx context.Context, actorID *int64, input service.RequestCreateInput) (*service.TransitionResult, error)
	Withdraw(ctx context.Context, requestID int64, actorID *int64) (*service.TransitionResult, error)
	Cancel(ctx context.Context, requestID int64, actorID *int64) (*service.TransitionResult, error)
	Approve(ctx context.Context, requestID int64, actorID *int64) (*service.TransitionResult, error)
	Reject(ctx context.Context, requestID int64, actorID *int64) (*service.TransitionResult, error)
	AggregatePendingRequests(ctx context.Context, staffIDs []int64) ([]domain.Request, error)
	ListRequestsForStaff(ctx context.Context, staffID int64, status *domain.RequestStatus) ([]domain.Request, error)
	GetRequest(ctx context.Context, requestID int64) (*domain.Request, error)
	ListHistory(ctx context.Context, requestID int64) ([]domain.RequestHistory, error)
}

// EventPublisher hands lifecycle events to the notification pipeline.
type EventPublisher interface {
	Enqueue(event events.Event) bool
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(out)
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequest(name + " must be a positive integer")
	}
	return id, nil
}
