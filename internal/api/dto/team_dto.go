package dto

import "github.com/spec-kit/leave-service/internal/service"

// StaffRefResponse is a staff entry under a position.
type StaffRefResponse struct {
	StaffID   int64  `json:"staff_id"`
	FirstName string `json:"staff_fname"`
}

// PositionGroupResponse lists staff holding one position.
type PositionGroupResponse struct {
	Position string             `json:"position"`
	Team     []StaffRefResponse `json:"team"`
}

// ManagerTeamResponse groups a manager's reports.
type ManagerTeamResponse struct {
	ManagerID   int64                   `json:"manager_id"`
	ManagerName string                  `json:"manager_name"`
	Positions   []PositionGroupResponse `json:"positions"`
}

// TeamsByManagerResponse is returned by GET /teams_by_reporting_manager.
type TeamsByManagerResponse struct {
	Positions []string              `json:"positions"`
	Teams     []ManagerTeamResponse `json:"teams"`
}

// NewTeamsByManagerResponse maps the hierarchy result.
func NewTeamsByManagerResponse(groups *service.ManagerGroups) TeamsByManagerResponse {
	resp := TeamsByManagerResponse{
		Positions: append([]string{}, groups.Positions...),
		Teams:     make([]ManagerTeamResponse, 0, len(groups.Teams)),
	}
	for _, team := range groups.Teams {
		mt := ManagerTeamResponse{
			ManagerID:   team.ManagerID,
			ManagerName: team.ManagerName,
			Positions:   make([]PositionGroupResponse, 0, len(team.Positions)),
		}
		for _, position := range team.Positions {
			pg := PositionGroupResponse{Position: position.Position, Team: make([]StaffRefResponse, 0, len(position.Team))}
			for _, ref := range position.Team {
				pg.Team = append(pg.Team, StaffRefResponse{StaffID: ref.StaffID, FirstName: ref.FirstName})
			}
			mt.Positions = append(mt.Positions, pg)
		}
		resp.Teams = append(resp.Teams, mt)
	}
	return resp
}
