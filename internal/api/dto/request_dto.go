package dto

import (
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/service"
)

const dateLayout = "2006-01-02"

// CreateRequestRequest payload for POST /requests/.
type CreateRequestRequest struct {
	StaffID     int64  `json:"staff_id" validate:"required,gt=0"`
	ScheduleID  *int64 `json:"schedule_id" validate:"omitempty,gt=0"`
	Reason      string `json:"reason" validate:"required,max=500"`
	Status      *int   `json:"status" validate:"omitempty,min=0,max=4"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot    string `json:"time_slot" validate:"required,max=10"`
	RequestType string `json:"request_type" validate:"required,max=50"`
}

// ToInput converts the payload after validation.
func (r CreateRequestRequest) ToInput() (service.RequestCreateInput, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return service.RequestCreateInput{}, err
	}
	input := service.RequestCreateInput{
		StaffID:     r.StaffID,
		ScheduleID:  r.ScheduleID,
		Reason:      r.Reason,
		Date:        date,
		TimeSlot:    r.TimeSlot,
		RequestType: r.RequestType,
	}
	if r.Status != nil {
		status := domain.RequestStatus(*r.Status)
		input.Status = &status
	}
	return input, nil
}

// RequestResponse is the public view of a request.
type RequestResponse struct {
	RequestID   int64     `json:"request_id"`
	StaffID     int64     `json:"staff_id"`
	ScheduleID  *int64    `json:"schedule_id"`
	Reason      string    `json:"reason"`
	Status      int       `json:"status"`
	StatusName  string    `json:"status_name"`
	Date        string    `json:"date"`
	TimeSlot    string    `json:"time_slot"`
	RequestType string    `json:"request_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRequestResponse maps a domain request.
func NewRequestResponse(r domain.Request) RequestResponse {
	return RequestResponse{
		RequestID:   r.RequestID,
		StaffID:     r.StaffID,
		ScheduleID:  r.ScheduleID,
		Reason:      r.Reason,
		Status:      int(r.Status),
		StatusName:  r.Status.String(),
		Date:        r.Date.Format(dateLayout),
		TimeSlot:    r.TimeSlot,
		RequestType: r.RequestType,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// NewRequestResponses maps a slice of requests.
func NewRequestResponses(requests []domain.Request) []RequestResponse {
	items := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		items = append(items, NewRequestResponse(r))
	}
	return items
}

// TransitionResponse reports a completed lifecycle step.
type TransitionResponse struct {
	Action  string          `json:"action"`
	From    *int            `json:"from_status,omitempty"`
	To      int             `json:"to_status"`
	Request RequestResponse `json:"request"`
}

// NewTransitionResponse maps a service transition result.
func NewTransitionResponse(result *service.TransitionResult) TransitionResponse {
	resp := TransitionResponse{
		Action:  string(result.Action),
		To:      int(result.To),
		Request: NewRequestResponse(*result.Request),
	}
	if result.From != nil {
		from := int(*result.From)
		resp.From = &from
	}
	return resp
}

// RequestHistoryResponse is one audit entry.
type RequestHistoryResponse struct {
	ID           int64     `json:"id"`
	RequestID    int64     `json:"request_id"`
	ActorStaffID *int64    `json:"actor_staff_id"`
	Action       string    `json:"action"`
	OldStatus    *int      `json:"old_status"`
	NewStatus    int       `json:"new_status"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewRequestHistoryResponses maps audit entries.
func NewRequestHistoryResponses(entries []domain.RequestHistory) []RequestHistoryResponse {
	items := make([]RequestHistoryResponse, 0, len(entries))
	for _, e := range entries {
		item := RequestHistoryResponse{
			ID:           e.ID,
			RequestID:    e.RequestID,
			ActorStaffID: e.ActorStaffID,
			Action:       string(e.Action),
			NewStatus:    int(e.NewStatus),
			CreatedAt:    e.CreatedAt,
		}
		if e.OldStatus != nil {
			old := int(*e.OldStatus)
			item.OldStatus = &old
		}
		items = append(items, item)
	}
	return items
}
