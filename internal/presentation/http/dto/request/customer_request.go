package request

// CustomerRequest creates or updates a customer. Update applies non-nil fields.
type CustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address" binding:"omitempty,max=500"`
}

// EmployeeRequest creates or updates an employee.
type EmployeeRequest struct {
	Code     *string `json:"code" binding:"omitempty,max=50"`
	Name     *string `json:"name" binding:"omitempty,min=2,max=255"`
	Position *string `json:"position" binding:"omitempty,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=50"`
	IsActive *bool   `json:"is_active"`
}

// AttendanceRequest is the optional body of check-in and check-out.
type AttendanceRequest struct {
	Note *string `json:"note" binding:"omitempty,max=500"`
}

// AttendanceFilterRequest filters attendance records.
type AttendanceFilterRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	From       string `form:"from" binding:"date"`
	To         string `form:"to" binding:"date"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
