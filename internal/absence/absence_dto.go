package absence

type CreateAbsenceRequest struct {
	EmployeeID string `json:"employeeId" binding:"required,uuid"`
	Type       string `json:"type" binding:"required"`
	StartDate  string `json:"startDate" binding:"required"`
	EndDate    string `json:"endDate" binding:"required"`
	Reason     string `json:"reason"`
}

type ListAbsencesFilter struct {
	EmployeeID string `form:"employee_id"`
	Status     string `form:"status"`
	Type       string `form:"type"`
}

type RejectAbsenceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type AbsenceResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"companyId"`
	EmployeeID      string  `json:"employeeId"`
	Type            string  `json:"type"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	Reason          string  `json:"reason,omitempty"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approvedBy,omitempty"`
	ApprovedAt      *string `json:"approvedAt,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}
