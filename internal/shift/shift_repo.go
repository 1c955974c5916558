package shift

import (
	"context"
	"database/sql"
	"time"

	"driftpro/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=shift_repo.go -destination=mock/shift_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, sh *Shift) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListShiftsFilter) ([]Shift, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Shift, error)
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
	Update(ctx context.Context, sh *Shift) error
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

func (r *repository) Create(ctx context.Context, sh *Shift) error {
	return r.conn(ctx).Create(sh).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListShiftsFilter) ([]Shift, error) {
	db := r.conn(ctx).Scopes(tenant.Scope(companyID))

	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.From != "" {
		if from, err := time.Parse(time.RFC3339, filter.From); err == nil {
			db = db.Where("start_time >= ?", from)
		}
	}
	if filter.To != "" {
		if to, err := time.Parse(time.RFC3339, filter.To); err == nil {
			db = db.Where("start_time < ?", to)
		}
	}

	var shifts []Shift
	err := db.Order("start_time ASC").Find(&shifts).Error
	return shifts, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Shift, error) {
	var sh Shift
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&sh, "id = ?", id).Error
	return &sh, err
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var n int64
	err := r.conn(ctx).
		Table("users").
		Where("id = ? AND company_id = ? AND deleted_at IS NULL", employeeID, companyID).
		Count(&n).Error
	return n > 0, err
}

func (r *repository) Update(ctx context.Context, sh *Shift) error {
	return r.conn(ctx).Save(sh).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Shift{}, "id = ?", id).Error
}
