package user

import (
	"context"
	"database/sql"
	"strings"

	"driftpro/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListUsersFilter) ([]User, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAdminsAndLeaders(ctx context.Context, companyID string, departmentID *string) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn binds the session to the surrounding transaction when one is set.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.conn(ctx).Create(u).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListUsersFilter) ([]User, error) {
	db := r.conn(ctx).Scopes(tenant.Scope(companyID))

	if filter.DepartmentID != "" {
		db = db.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(display_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var users []User
	err := db.Order("display_name ASC").Find(&users).Error
	return users, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*User, error) {
	var u User
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.conn(ctx).Where("email = ?", email).First(&u).Error
	return &u, err
}

// FindAdminsAndLeaders returns the users who should be notified about a
// request: company admins plus, when departmentID is set, that
// department's leaders.
func (r *repository) FindAdminsAndLeaders(ctx context.Context, companyID string, departmentID *string) ([]User, error) {
	db := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", StatusActive)

	if departmentID != nil && *departmentID != "" {
		db = db.Where("role = ? OR (role = ? AND department_id = ?)",
			RoleAdmin, RoleDepartmentLeader, *departmentID)
	} else {
		db = db.Where("role = ?", RoleAdmin)
	}

	var users []User
	err := db.Find(&users).Error
	return users, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.conn(ctx).Save(u).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&User{}, "id = ?", id).Error
}
