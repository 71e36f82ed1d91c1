package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/api/dto"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

// EmployeesHandler exposes the employee directory.
type EmployeesHandler struct {
	directory DirectoryService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(directory DirectoryService) *EmployeesHandler {
	return &EmployeesHandler{directory: directory}
}

// List handles GET /employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	employees, err := h.directory.ListEmployees(c.UserContext())
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		return apperrors.NewNotFoundMessage("No employees found.", nil)
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponses(employees)})
}

// Get handles GET /employees/:name.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return apperrors.NewBadRequest("invalid name")
	}
	employee, err := h.directory.FindEmployee(c.UserContext(), name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(*employee)})
}

// Create handles POST /employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	employee, err := h.directory.CreateEmployee(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEmployeeResponse(*employee)})
}
