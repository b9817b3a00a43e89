package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
	"github.com/sangkips/pos-backoffice/pkg/utils"
)

// EmployeeService manages employees and their attendance.
type EmployeeService struct {
	employeeRepo   repository.EmployeeRepository
	attendanceRepo repository.AttendanceRepository
	now            func() time.Time
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employeeRepo repository.EmployeeRepository, attendanceRepo repository.AttendanceRepository) *EmployeeService {
	return &EmployeeService{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		now:            time.Now,
	}
}

// EmployeeInput carries employee fields. On update, nil fields are left unchanged.
type EmployeeInput struct {
	Code     *string
	Name     *string
	Position *string
	Phone    *string
	IsActive *bool
}

// CreateEmployee creates a new employee. Codes are unique per store.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input *EmployeeInput) (*entity.Employee, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, apperror.NewFieldError("name", "is required")
	}

	code := ""
	if input.Code != nil {
		code = utils.NormalizeCode(*input.Code)
	}
	if code == "" {
		code = "EMP-" + strings.ToUpper(uuid.New().String()[:6])
	}
	if err := s.checkCodeFree(ctx, code, uuid.Nil); err != nil {
		return nil, err
	}

	employee := &entity.Employee{
		TenantID: tenantID,
		Code:     code,
		Name:     strings.TrimSpace(*input.Name),
		Position: trimmedOrNil(input.Position),
		Phone:    trimmedOrNil(input.Phone),
		IsActive: true,
	}
	if input.IsActive != nil {
		employee.IsActive = *input.IsActive
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// GetEmployee retrieves an employee by ID
func (s *EmployeeService) GetEmployee(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}
	return employee, nil
}

// ListEmployees lists employees
func (s *EmployeeService) ListEmployees(ctx context.Context, params pagination.Params, activeOnly bool) (*pagination.Page[entity.Employee], error) {
	params.Normalize()
	employees, total, err := s.employeeRepo.List(ctx, params, activeOnly)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(employees, params, total), nil
}

// UpdateEmployee updates an employee
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uuid.UUID, input *EmployeeInput) (*entity.Employee, error) {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Code != nil {
		code := utils.NormalizeCode(*input.Code)
		if code == "" {
			return nil, apperror.NewFieldError("code", "must not be empty")
		}
		if err := s.checkCodeFree(ctx, code, employee.ID); err != nil {
			return nil, err
		}
		employee.Code = code
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "must not be empty")
		}
		employee.Name = name
	}
	if input.Position != nil {
		employee.Position = trimmedOrNil(input.Position)
	}
	if input.Phone != nil {
		employee.Phone = trimmedOrNil(input.Phone)
	}
	if input.IsActive != nil {
		employee.IsActive = *input.IsActive
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// DeleteEmployee soft-deletes an employee. Reports keep their name.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetEmployee(ctx, id); err != nil {
		return err
	}
	return s.employeeRepo.Delete(ctx, id)
}

func (s *EmployeeService) checkCodeFree(ctx context.Context, code string, self uuid.UUID) error {
	existing, err := s.employeeRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Employee code already exists")
	}
	return nil
}

// CheckIn opens a shift for an active employee. An employee has at most one open shift.
func (s *EmployeeService) CheckIn(ctx context.Context, employeeID uuid.UUID, note *string) (*entity.AttendanceRecord, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	employee, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !employee.IsActive {
		return nil, apperror.NewBadRequestError("Employee is inactive")
	}

	open, err := s.attendanceRepo.GetOpen(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, apperror.NewConflictError("Employee is already checked in since " + open.CheckIn.Format(time.RFC3339))
	}

	record := &entity.AttendanceRecord{
		TenantID:   tenantID,
		EmployeeID: employeeID,
		CheckIn:    s.now(),
		Note:       trimmedOrNil(note),
	}
	if err := s.attendanceRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	record.Employee = employee
	return record, nil
}

// CheckOut closes the employee's open shift.
func (s *EmployeeService) CheckOut(ctx context.Context, employeeID uuid.UUID, note *string) (*entity.AttendanceRecord, error) {
	employee, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	open, err := s.attendanceRepo.GetOpen(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, apperror.NewNotFoundError("Open attendance record")
	}

	now := s.now()
	open.CheckOut = &now
	if n := trimmedOrNil(note); n != nil {
		open.Note = n
	}
	if err := s.attendanceRepo.Update(ctx, open); err != nil {
		return nil, err
	}
	open.Employee = employee
	return open, nil
}

// ListAttendance lists shifts, newest first, optionally for one employee and a check-in window [from, to).
func (s *EmployeeService) ListAttendance(ctx context.Context, filter repository.AttendanceFilter) (*pagination.Page[entity.AttendanceRecord], error) {
	filter.Pagination.Normalize()
	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(records, filter.Pagination, total), nil
}
