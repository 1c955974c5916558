package company

type UpdateCompanyRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Website *string `json:"website"`
	Active  *bool   `json:"active"`
}

type CompanyResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	OrgNumber     string `json:"orgNumber,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	City          string `json:"city,omitempty"`
	Website       string `json:"website,omitempty"`
	OrgForm       string `json:"orgForm,omitempty"`
	IndustryCode  string `json:"industryCode,omitempty"`
	IndustryText  string `json:"industryText,omitempty"`
	EmployeeCount int    `json:"employeeCount"`
	Active        bool   `json:"active"`
	EnrichedAt    string `json:"enrichedAt,omitempty"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}
