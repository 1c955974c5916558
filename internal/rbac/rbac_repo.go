package rbac

import "gorm.io/gorm"

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetUserRoles(companyID string) ([]UserRoleRow, error)
	GetRolePermissions(companyID string) ([]RolePermissionRow, error)

	ListRoles(companyID string) ([]RoleRow, error)
	ListPermissions() ([]PermissionRow, error)
	GetPermissionsByRole(companyID, roleName string) ([]PermissionRow, error)
	UpdateRolePermissions(companyID, roleName string, permIDs []string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// RoleRow is a named role within one company. DriftPro ships three fixed
// roles per company (admin, department_leader, employee); the permission
// grants behind them are editable.
type RoleRow struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID   string `gorm:"type:uuid"`
	Name        string
	Description string
}

func (RoleRow) TableName() string { return "roles" }

type PermissionRow struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Resource string
	Action   string
	Label    string
	Category string
}

func (PermissionRow) TableName() string { return "permissions" }

type UserRoleRow struct {
	UserID   string
	RoleName string
}

type RolePermissionRow struct {
	RoleName string
	Resource string
	Action   string
}

// GetUserRoles maps the role column on users to grouping policies. The
// role names double as casbin role subjects within the company domain.
func (r *repository) GetUserRoles(companyID string) ([]UserRoleRow, error) {
	var result []UserRoleRow

	err := r.db.
		Table("users").
		Select("users.id AS user_id, users.role AS role_name").
		Where("users.company_id = ?", companyID).
		Where("users.deleted_at IS NULL").
		Scan(&result).Error

	return result, err
}

func (r *repository) GetRolePermissions(companyID string) ([]RolePermissionRow, error) {
	var result []RolePermissionRow

	err := r.db.
		Table("role_permissions").
		Select("roles.name AS role_name, permissions.resource, permissions.action").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("roles.company_id = ?", companyID).
		Scan(&result).Error

	return result, err
}

func (r *repository) ListRoles(companyID string) ([]RoleRow, error) {
	var roles []RoleRow
	err := r.db.
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&roles).Error
	return roles, err
}

func (r *repository) ListPermissions() ([]PermissionRow, error) {
	var perms []PermissionRow
	err := r.db.Order("category ASC, resource ASC, action ASC").Find(&perms).Error
	return perms, err
}

func (r *repository) GetPermissionsByRole(companyID, roleName string) ([]PermissionRow, error) {
	var perms []PermissionRow
	err := r.db.
		Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Where("roles.company_id = ?", companyID).
		Where("roles.name = ?", roleName).
		Scan(&perms).Error
	return perms, err
}

func (r *repository) UpdateRolePermissions(companyID, roleName string, permIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var role RoleRow
		if err := tx.
			Where("company_id = ? AND name = ?", companyID, roleName).
			First(&role).Error; err != nil {
			return err
		}

		if err := tx.Exec(
			"DELETE FROM role_permissions WHERE role_id = ?", role.ID,
		).Error; err != nil {
			return err
		}

		for _, permID := range permIDs {
			if err := tx.Exec(
				"INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)",
				role.ID, permID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
