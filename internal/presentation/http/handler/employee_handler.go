package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-backoffice/internal/application/service"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
)

// EmployeeHandler serves employees and their attendance.
type EmployeeHandler struct {
	employeeService *service.EmployeeService
	loc             *time.Location
}

// NewEmployeeHandler creates a new employee handler. loc is the store time zone for date filters.
func NewEmployeeHandler(employeeService *service.EmployeeService, loc *time.Location) *EmployeeHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &EmployeeHandler{employeeService: employeeService, loc: loc}
}

func employeeInput(req request.EmployeeRequest) *service.EmployeeInput {
	return &service.EmployeeInput{
		Code:     req.Code,
		Name:     req.Name,
		Position: req.Position,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	}
}

// List handles listing employees. ?active=true hides deactivated staff.
func (h *EmployeeHandler) List(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}
	page, err := h.employeeService.ListEmployees(c.Request.Context(), params, c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Employees retrieved", page)
}

// Get handles getting an employee by ID
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	employee, err := h.employeeService.GetEmployee(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Employee retrieved", employee)
}

// Create handles employee creation
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req request.EmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil {
		response.Error(c, apperror.NewFieldError("name", "is required"))
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), employeeInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Employee created successfully", employee)
}

// Update handles employee update
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request.EmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), id, employeeInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Employee updated successfully", employee)
}

// Delete handles employee deletion
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.employeeService.DeleteEmployee(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Employee deleted successfully", nil)
}

// CheckIn opens an attendance record for the employee.
func (h *EmployeeHandler) CheckIn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request.AttendanceRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	record, err := h.employeeService.CheckIn(c.Request.Context(), id, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Checked in", record)
}

// CheckOut closes the employee's open attendance record.
func (h *EmployeeHandler) CheckOut(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request.AttendanceRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	record, err := h.employeeService.CheckOut(c.Request.Context(), id, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Checked out", record)
}

// ListAttendance lists attendance records, optionally for one employee and a day range.
func (h *EmployeeHandler) ListAttendance(c *gin.Context) {
	var req request.AttendanceFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	from, to, err := dayRange(req.From, req.To, h.loc)
	if err != nil {
		response.Error(c, err)
		return
	}

	employeeID, err := optionalUUID("employee_id", req.EmployeeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := repository.AttendanceFilter{
		Pagination: pagination.Params{Page: req.Page, PerPage: req.PerPage},
		EmployeeID: employeeID,
		From:       from,
		To:         to,
	}
	if id := c.Param("id"); id != "" {
		employeeID, ok := pathID(c, "id")
		if !ok {
			return
		}
		filter.EmployeeID = &employeeID
	}
	filter.Pagination.Normalize()

	page, err := h.employeeService.ListAttendance(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Attendance retrieved", page)
}
