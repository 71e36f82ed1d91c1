package events

import (
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated   EventType = "request.created"
	EventRequestWithdrawn EventType = "request.withdrawn"
	EventRequestCancelled EventType = "request.cancelled"
	EventRequestApproved  EventType = "request.approved"
	EventRequestRejected  EventType = "request.rejected"
)

// EventTypeForAction maps a lifecycle action to the event it emits.
func EventTypeForAction(action domain.RequestAction) (EventType, bool) {
	switch action {
	case domain.RequestActionCreate:
		return EventRequestCreated, true
	case domain.RequestActionWithdraw:
		return EventRequestWithdrawn, true
	case domain.RequestActionCancel:
		return EventRequestCancelled, true
	case domain.RequestActionApprove:
		return EventRequestApproved, true
	case domain.RequestActionReject:
		return EventRequestRejected, true
	}
	return "", false
}

// Event represents a request lifecycle change.
type Event struct {
	ID           string                `json:"id"`
	Type         EventType             `json:"type"`
	RequestID    int64                 `json:"request_id"`
	OwnerStaffID int64                 `json:"owner_staff_id"`
	ActorStaffID *int64                `json:"actor_staff_id,omitempty"`
	OldStatus    *domain.RequestStatus `json:"old_status,omitempty"`
	NewStatus    domain.RequestStatus  `json:"new_status"`
	Timestamp    time.Time             `json:"timestamp"`
}
