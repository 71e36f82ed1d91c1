package dto

import (
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
)

// CreateEmployeeRequest payload for POST /employees.
type CreateEmployeeRequest struct {
	StaffID          int64   `json:"staff_id" validate:"required,gt=0"`
	FirstName        string  `json:"staff_fname" validate:"required,max=50"`
	LastName         string  `json:"staff_lname" validate:"required,max=50"`
	Department       *string `json:"dept" validate:"omitempty,max=50"`
	Position         string  `json:"position" validate:"required,max=50"`
	Country          string  `json:"country" validate:"required,max=50"`
	Email            string  `json:"email" validate:"required,email"`
	ReportingManager int64   `json:"reporting_manager" validate:"required,gt=0"`
	Role             int     `json:"role" validate:"omitempty,oneof=1 2 3"`
}

// ToDomain converts the payload into a directory record.
func (r CreateEmployeeRequest) ToDomain() *domain.Employee {
	return &domain.Employee{
		StaffID:          r.StaffID,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Department:       r.Department,
		Position:         r.Position,
		Country:          r.Country,
		Email:            r.Email,
		ReportingManager: r.ReportingManager,
		Role:             domain.Role(r.Role),
	}
}

// EmployeeResponse is the public view of an employee. Password hashes are never exposed.
type EmployeeResponse struct {
	StaffID          int64     `json:"staff_id"`
	FirstName        string    `json:"staff_fname"`
	LastName         string    `json:"staff_lname"`
	Department       *string   `json:"dept"`
	Position         string    `json:"position"`
	Country          string    `json:"country"`
	Email            string    `json:"email"`
	ReportingManager int64     `json:"reporting_manager"`
	Role             int       `json:"role"`
	CreatedAt        time.Time `json:"created_at,omitzero"`
}

// NewEmployeeResponse maps a domain employee.
func NewEmployeeResponse(e domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		StaffID:          e.StaffID,
		FirstName:        e.FirstName,
		LastName:         e.LastName,
		Department:       e.Department,
		Position:         e.Position,
		Country:          e.Country,
		Email:            e.Email,
		ReportingManager: e.ReportingManager,
		Role:             int(e.Role),
		CreatedAt:        e.CreatedAt,
	}
}

// NewEmployeeResponses maps a slice of employees.
func NewEmployeeResponses(employees []domain.Employee) []EmployeeResponse {
	items := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		items = append(items, NewEmployeeResponse(e))
	}
	return items
}
