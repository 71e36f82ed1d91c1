package domain

import (
	"fmt"
	"strings"
	"time"
)

// RequestStatus enumerates lifecycle states. The numeric values are persisted.
type RequestStatus int

const (
	RequestStatusPending   RequestStatus = 0
	RequestStatusApproved  RequestStatus = 1
	RequestStatusRejected  RequestStatus = 2
	RequestStatusWithdrawn RequestStatus = 3
	RequestStatusCancelled RequestStatus = 4
)

var requestStatusNames = map[RequestStatus]string{
	RequestStatusPending:   "PENDING",
	RequestStatusApproved:  "APPROVED",
	RequestStatusRejected:  "REJECTED",
	RequestStatusWithdrawn: "WITHDRAWN",
	RequestStatusCancelled: "CANCELLED",
}

func (s RequestStatus) String() string {
	if name, ok := requestStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS(%d)", int(s))
}

// Valid reports whether s is one of the known states.
func (s RequestStatus) Valid() bool {
	_, ok := requestStatusNames[s]
	return ok
}

// ParseRequestStatus accepts either the numeric value or the name.
func ParseRequestStatus(raw string) (RequestStatus, error) {
	raw = strings.TrimSpace(raw)
	for status, name := range requestStatusNames {
		if strings.EqualFold(raw, name) || raw == fmt.Sprint(int(status)) {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown request status %q", raw)
}

// RequestAction names a lifecycle transition.
type RequestAction string

const (
	RequestActionCreate   RequestAction = "create"
	RequestActionWithdraw RequestAction = "withdraw"
	RequestActionCancel   RequestAction = "cancel"
	RequestActionApprove  RequestAction = "approve"
	RequestActionReject   RequestAction = "reject"
)

// Request is a leave or schedule-change application owned by one staff member.
type Request struct {
	RequestID   int64
	StaffID     int64
	ScheduleID  *int64
	Reason      string
	Status      RequestStatus
	Date        time.Time
	TimeSlot    string
	RequestType string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
