package user

type CreateUserRequest struct {
	DisplayName  string `json:"displayName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Password     string `json:"password" binding:"required,min=6"`
	Role         string `json:"role" binding:"required,oneof=admin department_leader employee"`
	DepartmentID string `json:"departmentId" binding:"omitempty,uuid"`
}

// UpdateUserRequest is a partial merge: nil fields are left untouched.
type UpdateUserRequest struct {
	DisplayName  *string `json:"displayName"`
	Phone        *string `json:"phone"`
	PhotoURL     *string `json:"photoUrl"`
	Role         *string `json:"role" binding:"omitempty,oneof=admin department_leader employee"`
	Status       *string `json:"status" binding:"omitempty,oneof=active inactive pending"`
	DepartmentID *string `json:"departmentId" binding:"omitempty,uuid"`
}

type ListUsersFilter struct {
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	Role         string `form:"role" binding:"omitempty,oneof=admin department_leader employee"`
	Status       string `form:"status" binding:"omitempty,oneof=active inactive pending"`
	Query        string `form:"q"`
}

type UserResponse struct {
	ID           string  `json:"id"`
	CompanyID    string  `json:"companyId"`
	DepartmentID *string `json:"departmentId,omitempty"`
	DisplayName  string  `json:"displayName"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone,omitempty"`
	PhotoURL     string  `json:"photoUrl,omitempty"`
	Role         string  `json:"role"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
}
