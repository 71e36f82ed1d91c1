package domain

import "time"

// RequestHistory is an immutable audit entry for one lifecycle transition.
type RequestHistory struct {
	ID           int64
	RequestID    int64
	ActorStaffID *int64
	Action       RequestAction
	OldStatus    *RequestStatus
	NewStatus    RequestStatus
	CreatedAt    time.Time
}
