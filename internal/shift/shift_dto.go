package shift

type CreateShiftRequest struct {
	EmployeeID string `json:"employeeId" binding:"required,uuid"`
	Title      string `json:"title" binding:"required"`
	StartTime  string `json:"startTime" binding:"required"`
	EndTime    string `json:"endTime" binding:"required"`
	Location   string `json:"location"`
	Notes      string `json:"notes"`
}

type UpdateShiftRequest struct {
	Title     *string `json:"title"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Location  *string `json:"location"`
	Notes     *string `json:"notes"`
}

type ListShiftsFilter struct {
	EmployeeID string `form:"employee_id"`
	Status     string `form:"status"`
	From       string `form:"from"`
	To         string `form:"to"`
}

type ShiftResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"companyId"`
	EmployeeID string `json:"employeeId"`
	Title      string `json:"title"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Status     string `json:"status"`
	Location   string `json:"location,omitempty"`
	Notes      string `json:"notes,omitempty"`
	CreatedBy  string `json:"createdBy,omitempty"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}
