package handlers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/api/dto"
	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/domain"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

// TeamsHandler exposes hierarchy and team views.
type TeamsHandler struct {
	hierarchy HierarchyService
	teams     TeamService
	requests  RequestService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(hierarchy HierarchyService, teams TeamService, requests RequestService) *TeamsHandler {
	return &TeamsHandler{hierarchy: hierarchy, teams: teams, requests: requests}
}

// TeamsByReportingManager handles GET /teams_by_reporting_manager?department=.
func (h *TeamsHandler) TeamsByReportingManager(c *fiber.Ctx) error {
	groups, err := h.hierarchy.ResolveTeamsByManager(c.UserContext(), c.Query("department"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamsByManagerResponse(groups)})
}

// TeamDetails handles GET /team_details?m_name=&dept=.
func (h *TeamsHandler) TeamDetails(c *fiber.Ctx) error {
	reports, err := h.hierarchy.TeamDetails(c.UserContext(), c.Query("m_name"), c.Query("dept"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponses(reports)})
}

// TeamRequests handles GET /team/:team_id/requests.
func (h *TeamsHandler) TeamRequests(c *fiber.Ctx) error {
	teamID, err := paramID(c, "team_id")
	if err != nil {
		return err
	}
	staffIDs, err := h.teams.StaffIDsForTeam(c.UserContext(), teamID)
	if err != nil {
		return err
	}
	if len(staffIDs) == 0 {
		return apperrors.NewNotFoundMessage(fmt.Sprintf("No staff found for Team ID %d", teamID), nil)
	}
	requests, err := h.pending(c.UserContext(), staffIDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponses(requests)})
}

// CoMemberRequests handles GET /team/requests for the calling staff member.
func (h *TeamsHandler) CoMemberRequests(c *fiber.Ctx) error {
	requests, err := h.coMemberRequests(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponses(requests)})
}

// ExportCoMemberRequests handles GET /team/requests/export.
func (h *TeamsHandler) ExportCoMemberRequests(c *fiber.Ctx) error {
	requests, err := h.coMemberRequests(c)
	if err != nil {
		return err
	}
	return writeRequestsWorkbook(c, requests)
}

func (h *TeamsHandler) coMemberRequests(c *fiber.Ctx) ([]domain.Request, error) {
	actorID, err := auth.ActorID(c)
	if err != nil {
		return nil, err
	}
	if actorID == nil {
		return nil, apperrors.NewBadRequest("Staff ID is required")
	}

	ctx := c.UserContext()
	teamIDs, err := h.hierarchy.ResolveTeamIDsForStaff(ctx, *actorID)
	if err != nil {
		return nil, err
	}
	if len(teamIDs) == 0 {
		return nil, apperrors.NewNotFoundMessage("No team found for the logged-in user.", nil)
	}

	staffIDs, err := h.teams.ResolveCoMembers(ctx, teamIDs, *actorID)
	if err != nil {
		return nil, err
	}
	if len(staffIDs) == 0 {
		return nil, apperrors.NewNotFoundMessage("No staff found for the provided team IDs.", nil)
	}
	return h.pending(ctx, staffIDs)
}

func (h *TeamsHandler) pending(ctx context.Context, staffIDs []int64) ([]domain.Request, error) {
	requests, err := h.requests.AggregatePendingRequests(ctx, staffIDs)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, apperrors.NewNotFoundMessage("No requests found for staff members in this team.", nil)
	}
	return requests, nil
}
