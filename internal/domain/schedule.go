package domain

import "time"

// Schedule is a working-schedule slot a request may refer to.
type Schedule struct {
	ScheduleID int64
	StaffID    int64
	Date       time.Time
	TimeSlot   string
	Reason     *string
	Status     int
}
