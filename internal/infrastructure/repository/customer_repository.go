package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return err
	}
	customer.TenantID = tenantID
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params pagination.Params) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{}).Scopes(TenantScope(ctx))
	if params.Search != "" {
		s := like(params.Search)
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", s, s, s)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Normalize()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&customers).Error
	return customers, total, err
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) domainRepo.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *entity.Employee) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return err
	}
	employee.TenantID = tenantID
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	var employee entity.Employee
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&employee, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &employee, err
}

func (r *employeeRepository) GetByCode(ctx context.Context, code string) (*entity.Employee, error) {
	var employee entity.Employee
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&employee, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &employee, err
}

func (r *employeeRepository) Update(ctx context.Context, employee *entity.Employee) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Save(employee).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Delete(&entity.Employee{}, "id = ?", id).Error
}

func (r *employeeRepository) List(ctx context.Context, params pagination.Params, activeOnly bool) ([]entity.Employee, int64, error) {
	var employees []entity.Employee
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Employee{}).Scopes(TenantScope(ctx))
	if params.Search != "" {
		s := like(params.Search)
		query = query.Where("name ILIKE ? OR code ILIKE ?", s, s)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Normalize()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&employees).Error
	return employees, total, err
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *gorm.DB) domainRepo.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, record *entity.AttendanceRecord) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return err
	}
	record.TenantID = tenantID
	return r.db.WithContext(ctx).Omit("Employee").Create(record).Error
}

func (r *attendanceRepository) Update(ctx context.Context, record *entity.AttendanceRecord) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Omit("Employee").Save(record).Error
}

func (r *attendanceRepository) GetOpen(ctx context.Context, employeeID uuid.UUID) (*entity.AttendanceRecord, error) {
	var record entity.AttendanceRecord
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("employee_id = ? AND check_out IS NULL", employeeID).
		Order("check_in DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *attendanceRepository) List(ctx context.Context, f domainRepo.AttendanceFilter) ([]entity.AttendanceRecord, int64, error) {
	var records []entity.AttendanceRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.AttendanceRecord{}).Scopes(TenantScope(ctx))
	if f.EmployeeID != nil {
		query = query.Where("employee_id = ?", *f.EmployeeID)
	}
	if f.From != nil {
		query = query.Where("check_in >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("check_in < ?", *f.To)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	f.Pagination.Normalize()
	err := query.Preload("Employee").
		Offset(f.Pagination.Offset()).Limit(f.Pagination.PerPage).
		Order("check_in DESC").
		Find(&records).Error
	return records, total, err
}
