package timeclock

type ClockInRequest struct {
	Notes string `json:"notes"`
}

type ClockOutRequest struct {
	Notes string `json:"notes"`
}

type ListEntriesFilter struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	From       string `form:"from"`
	To         string `form:"to"`
}

type EntryResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	ClockIn    string  `json:"clockIn"`
	ClockOut   *string `json:"clockOut,omitempty"`
	TotalHours float64 `json:"totalHours"`
	Notes      string  `json:"notes,omitempty"`
	Open       bool    `json:"open"`
}

type StatusResponse struct {
	ClockedIn bool           `json:"clockedIn"`
	Entry     *EntryResponse `json:"entry,omitempty"`
}
