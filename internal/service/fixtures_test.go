package service

import (
	"github.com/spec-kit/leave-service/internal/domain"
)

func directoryFixture() []domain.Employee {
	return []domain.Employee{
		{StaffID: 1, FirstName: "Jack", LastName: "Sim", Department: strPtr("CEO"), Position: "Director", Email: "jack@example.com", ReportingManager: 1, Role: domain.RoleManager},
		{StaffID: 2, FirstName: "Derek", LastName: "Tan", Department: strPtr("Sales"), Position: "Director", Email: "derek@example.com", ReportingManager: 1, Role: domain.RoleManager},
		{StaffID: 10, FirstName: "Alice", LastName: "Ng", Department: strPtr("Sales"), Position: "Account Manager", Email: "alice@example.com", ReportingManager: 2, Role: domain.RoleStaff},
		{StaffID: 11, FirstName: "Bob", LastName: "Lim", Department: strPtr("Sales"), Position: "Sales Manager", Email: "bob@example.com", ReportingManager: 2, Role: domain.RoleStaff},
		{StaffID: 12, FirstName: "Carol", LastName: "Teo", Department: strPtr("Engineering"), Position: "Developer", Email: "carol@example.com", ReportingManager: 20, Role: domain.RoleStaff},
		{StaffID: 13, FirstName: "Dan", LastName: "Koh", Department: strPtr("Sales"), Position: "Account Manager", Email: "dan@example.com", ReportingManager: 2, Role: domain.RoleStaff},
		{StaffID: 30, FirstName: "Hana", LastName: "Lee", Department: strPtr("HR"), Position: "HR Team", Email: "hana@example.com", ReportingManager: 1, Role: domain.RoleHR},
	}
}
