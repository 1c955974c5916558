package deviation

type CreateDeviationRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	Priority    string `json:"priority"`
	AssignedTo  string `json:"assignedTo"`
}

type UpdateDeviationRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	AssignedTo  *string `json:"assignedTo"`
}

type ResolveDeviationRequest struct {
	Resolution string `json:"resolution" binding:"required"`
}

type ListDeviationsFilter struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Priority string `form:"priority"`
	Assignee string `form:"assignee"`
}

type DeviationResponse struct {
	ID          string  `json:"id"`
	CompanyID   string  `json:"companyId"`
	UniqueID    string  `json:"uniqueId"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	ReportedBy  string  `json:"reportedBy"`
	AssignedTo  *string `json:"assignedTo,omitempty"`
	Resolution  string  `json:"resolution,omitempty"`
	ResolvedAt  *string `json:"resolvedAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}
