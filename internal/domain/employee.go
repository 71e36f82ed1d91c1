package domain

import (
	"strings"
	"time"
)

// Role is the integer access tier of an employee.
type Role int

const (
	RoleHR      Role = 1
	RoleStaff   Role = 2
	RoleManager Role = 3
)

// Employee is a directory record. ReportingManager points one level up the hierarchy.
type Employee struct {
	StaffID          int64
	FirstName        string
	LastName         string
	Department       *string
	Position         string
	Country          string
	Email            string
	ReportingManager int64
	Role             Role
	PasswordHash     *string
	CreatedAt        time.Time
}

// FullName returns "First Last", trimmed.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// ManagesDirectly reports whether e is the direct reporting manager of other.
func (e Employee) ManagesDirectly(other Employee) bool {
	return other.ReportingManager == e.StaffID && other.StaffID != e.StaffID
}
