package vacation

type CreateVacationRequest struct {
	EmployeeID string `json:"employeeId" binding:"required,uuid"`
	StartDate  string `json:"startDate" binding:"required"`
	EndDate    string `json:"endDate" binding:"required"`
	Reason     string `json:"reason"`
}

type ListVacationsFilter struct {
	EmployeeID string `form:"employee_id"`
	Status     string `form:"status"`
	Year       int    `form:"year"`
}

type RejectVacationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CarryOverRequest struct {
	FromYear int `json:"fromYear" binding:"required"`
	MaxDays  int `json:"maxDays"`
}

type VacationResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"companyId"`
	EmployeeID      string  `json:"employeeId"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	DaysRequested   int     `json:"daysRequested"`
	Year            int     `json:"year"`
	Status          string  `json:"status"`
	Reason          string  `json:"reason,omitempty"`
	ApprovedBy      *string `json:"approvedBy,omitempty"`
	ApprovedAt      *string `json:"approvedAt,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

type BalanceResponse struct {
	EmployeeID      string `json:"employeeId"`
	Year            int    `json:"year"`
	TotalDays       int    `json:"totalDays"`
	UsedDays        int    `json:"usedDays"`
	CarriedOverDays int    `json:"carriedOverDays"`
	RemainingDays   int    `json:"remainingDays"`
}
