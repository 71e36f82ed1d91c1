package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/service"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	err := Validate(&CreateRequestRequest{StaffID: 10, Date: "2024-13-40"})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
	assert.Equal(t, "datetime", domainErr.Details["date"])
	assert.Equal(t, "required", domainErr.Details["reason"])
	assert.Contains(t, domainErr.Details, "time_slot")
}

func TestCreateRequestRequest_ToInput(t *testing.T) {
	status := 0
	req := CreateRequestRequest{StaffID: 10, Reason: "Dentist", Status: &status, Date: "2024-03-04", TimeSlot: "AM", RequestType: "Leave"}
	require.NoError(t, Validate(&req))

	input, err := req.ToInput()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), input.Date)
	require.NotNil(t, input.Status)
	assert.Equal(t, domain.RequestStatusPending, *input.Status)
}

func TestCreateEmployeeRequest_RoleRange(t *testing.T) {
	dept := "Sales"
	req := CreateEmployeeRequest{
		StaffID: 50, FirstName: "Eve", LastName: "Ng", Department: &dept, Position: "Account Manager",
		Country: "Singapore", Email: "eve@example.com", ReportingManager: 2,
	}
	require.NoError(t, Validate(&req))

	req.Role = 7
	assert.Error(t, Validate(&req))
}

func TestNewTransitionResponse(t *testing.T) {
	from := domain.RequestStatusPending
	resp := NewTransitionResponse(&service.TransitionResult{
		Request: &domain.Request{RequestID: 5, Status: domain.RequestStatusApproved},
		Action:  domain.RequestActionApprove,
		From:    &from,
		To:      domain.RequestStatusApproved,
	})

	assert.Equal(t, "approve", resp.Action)
	require.NotNil(t, resp.From)
	assert.Equal(t, 0, *resp.From)
	assert.Equal(t, 1, resp.To)
	assert.Equal(t, "APPROVED", resp.Request.StatusName)
}

func TestNewTeamsByManagerResponse(t *testing.T) {
	resp := NewTeamsByManagerResponse(&service.ManagerGroups{
		Positions: []string{"Developer"},
		Teams: []service.ManagerTeam{{
			ManagerID:   2,
			ManagerName: "Derek",
			Positions:   []service.PositionGroup{{Position: "Developer", Team: []service.StaffRef{{StaffID: 12, FirstName: "Carol"}}}},
		}},
	})

	require.Len(t, resp.Teams, 1)
	assert.Equal(t, "Derek", resp.Teams[0].ManagerName)
	assert.Equal(t, int64(12), resp.Teams[0].Positions[0].Team[0].StaffID)
}
