package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is staff who serve orders and clock in and out.
// Employees are not necessarily users of the back office.
type Employee struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_employees_tenant_code" json:"tenant_id"`
	Code      string         `gorm:"size:50;not null;uniqueIndex:idx_employees_tenant_code" json:"code"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Position  *string        `gorm:"size:100" json:"position,omitempty"`
	Phone     *string        `gorm:"size:50" json:"phone,omitempty"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new employee
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}

// AttendanceRecord is one shift. CheckOut is nil while the shift is open.
type AttendanceRecord struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null;index" json:"employee_id"`
	CheckIn    time.Time  `gorm:"not null;index" json:"check_in"`
	CheckOut   *time.Time `json:"check_out,omitempty"`
	Note       *string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// BeforeCreate generates a UUID before creating a new attendance record
func (a *AttendanceRecord) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AttendanceRecord model
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// IsOpen reports whether the employee has not checked out yet.
func (a *AttendanceRecord) IsOpen() bool {
	return a.CheckOut == nil
}

// Worked returns the shift length, or zero for an open shift.
func (a *AttendanceRecord) Worked() time.Duration {
	if a.CheckOut == nil || a.CheckOut.Before(a.CheckIn) {
		return 0
	}
	return a.CheckOut.Sub(a.CheckIn)
}
