package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/observability"
	"github.com/spec-kit/leave-service/internal/repository"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

const (
	// DepartmentAll disables the department filter.
	DepartmentAll = "All"
	// DepartmentCEO selects directors regardless of department.
	DepartmentCEO = "CEO"

	directorPosition   = "Director"
	unknownManagerName = "Unknown"
)

// ErrNoStaffFound is returned when a department filter matches nobody.
var ErrNoStaffFound = apperrors.NewNotFoundMessage("No staff found", nil)

// StaffRef is the compact staff entry listed under a position.
type StaffRef struct {
	StaffID   int64
	FirstName string
}

// PositionGroup lists the staff holding one position under a manager.
type PositionGroup struct {
	Position string
	Team     []StaffRef
}

// ManagerTeam is everyone reporting to one manager, grouped by position.
type ManagerTeam struct {
	ManagerID   int64
	ManagerName string
	Positions   []PositionGroup
}

// ManagerGroups is the result of ResolveTeamsByManager.
type ManagerGroups struct {
	Positions []string
	Teams     []ManagerTeam
}

// HierarchyService resolves reporting lines and team memberships.
type HierarchyService struct {
	employees repository.EmployeeRepository
	teams     repository.TeamRepository
	names     repository.NameCache
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// HierarchyDependencies bundles repositories for the hierarchy service.
type HierarchyDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	TeamRepo     repository.TeamRepository
	NameCache    repository.NameCache
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// NewHierarchyService creates the service.
func NewHierarchyService(deps HierarchyDependencies) *HierarchyService {
	names := deps.NameCache
	if names == nil {
		names = repository.NewRedisNameCache(nil, 0)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HierarchyService{
		employees: deps.EmployeeRepo,
		teams:     deps.TeamRepo,
		names:     names,
		metrics:   deps.Metrics,
		logger:    logger,
	}
}

// ResolveTeamsByManager groups the employees matching department by reporting manager and
// position. An empty department means DepartmentAll.
func (s *HierarchyService) ResolveTeamsByManager(ctx context.Context, department string) (*ManagerGroups, error) {
	staff, err := s.employees.List(ctx, departmentFilter(department))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(staff) == 0 {
		return nil, ErrNoStaffFound
	}

	result := &ManagerGroups{}
	teamIndex := make(map[int64]int)
	positionIndex := make(map[int64]map[string]int)
	seenPositions := make(map[string]struct{})

	for _, employee := range staff {
		if _, ok := seenPositions[employee.Position]; !ok {
			seenPositions[employee.Position] = struct{}{}
			result.Positions = append(result.Positions, employee.Position)
		}

		managerID := employee.ReportingManager
		ti, ok := teamIndex[managerID]
		if !ok {
			name, err := s.ResolveManagerName(ctx, managerID)
			if err != nil {
				return nil, err
			}
			ti = len(result.Teams)
			teamIndex[managerID] = ti
			positionIndex[managerID] = make(map[string]int)
			result.Teams = append(result.Teams, ManagerTeam{ManagerID: managerID, ManagerName: name})
		}

		team := &result.Teams[ti]
		pi, ok := positionIndex[managerID][employee.Position]
		if !ok {
			pi = len(team.Positions)
			positionIndex[managerID][employee.Position] = pi
			team.Positions = append(team.Positions, PositionGroup{Position: employee.Position})
		}
		team.Positions[pi].Team = append(team.Positions[pi].Team, StaffRef{
			StaffID:   employee.StaffID,
			FirstName: employee.FirstName,
		})
	}

	sort.Strings(result.Positions)
	return result, nil
}

// ResolveManagerName returns the first name of managerID, or "Unknown" when no employee matches.
func (s *HierarchyService) ResolveManagerName(ctx context.Context, managerID int64) (string, error) {
	name, hit, err := s.names.Get(ctx, managerID)
	if err != nil {
		s.logger.Warn("name cache read failed", zap.Int64("manager_id", managerID), zap.Error(err))
	}
	s.metrics.RecordCacheLookup(hit)
	if hit {
		return name, nil
	}

	manager, err := s.employees.GetByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return unknownManagerName, nil
		}
		return "", apperrors.MapError(err)
	}

	name = manager.FirstName
	if err := s.names.Set(ctx, managerID, name); err != nil {
		s.logger.Warn("name cache write failed", zap.Int64("manager_id", managerID), zap.Error(err))
	}
	return name, nil
}

// ResolveTeamIDsForStaff returns the distinct team ids staffID belongs to, ascending. A staff
// member without teams yields an empty slice and no error.
func (s *HierarchyService) ResolveTeamIDsForStaff(ctx context.Context, staffID int64) ([]int64, error) {
	memberships, err := s.teams.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ids := make([]int64, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.TeamID)
	}
	return sortedUnique(ids), nil
}

// TeamDetails lists the direct reports of the manager named managerName within department.
func (s *HierarchyService) TeamDetails(ctx context.Context, managerName, department string) ([]domain.Employee, error) {
	managerName = strings.TrimSpace(managerName)
	department = strings.TrimSpace(department)
	if managerName == "" || department == "" {
		return nil, apperrors.NewValidationError("Manager name and department are required", nil)
	}

	manager, err := s.employees.FindByName(ctx, managerName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("manager", map[string]any{"m_name": managerName})
		}
		return nil, apperrors.MapError(err)
	}

	reports, err := s.employees.List(ctx, repository.EmployeeFilter{
		Department:       &department,
		ReportingManager: &manager.StaffID,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := make([]domain.Employee, 0, len(reports))
	for _, employee := range reports {
		if manager.ManagesDirectly(employee) {
			result = append(result, employee)
		}
	}
	return result, nil
}

func departmentFilter(department string) repository.EmployeeFilter {
	switch department = strings.TrimSpace(department); department {
	case "", DepartmentAll:
		return repository.EmployeeFilter{}
	case DepartmentCEO:
		position := directorPosition
		return repository.EmployeeFilter{Position: &position}
	default:
		return repository.EmployeeFilter{Department: &department}
	}
}

func sortedUnique(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
