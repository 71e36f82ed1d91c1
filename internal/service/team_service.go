package service

import (
	"context"

	"github.com/spec-kit/leave-service/internal/repository"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

// TeamService resolves staff sets from team memberships.
type TeamService struct {
	teams repository.TeamRepository
}

// TeamDependencies bundles repositories for the team service.
type TeamDependencies struct {
	TeamRepo repository.TeamRepository
}

// NewTeamService creates the service.
func NewTeamService(deps TeamDependencies) *TeamService {
	return &TeamService{teams: deps.TeamRepo}
}

// ResolveCoMembers returns every member of teamIDs except excludeStaffID, ascending and
// without duplicates.
func (s *TeamService) ResolveCoMembers(ctx context.Context, teamIDs []int64, excludeStaffID int64) ([]int64, error) {
	if len(teamIDs) == 0 {
		return nil, apperrors.NewValidationError("team ids are required", nil)
	}

	memberships, err := s.teams.ListByTeams(ctx, sortedUnique(teamIDs))
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ids := make([]int64, 0, len(memberships))
	for _, m := range memberships {
		if m.StaffID == excludeStaffID {
			continue
		}
		ids = append(ids, m.StaffID)
	}
	return sortedUnique(ids), nil
}

// StaffIDsForTeam returns all members of teamID, ascending.
func (s *TeamService) StaffIDsForTeam(ctx context.Context, teamID int64) ([]int64, error) {
	memberships, err := s.teams.ListByTeams(ctx, []int64{teamID})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ids := make([]int64, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.StaffID)
	}
	return sortedUnique(ids), nil
}
