package vacation

import (
	"context"
	"database/sql"

	"driftpro/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=vacation_repo.go -destination=mock/vacation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, v *Vacation) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListVacationsFilter) ([]Vacation, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Vacation, error)
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
	Update(ctx context.Context, v *Vacation) error

	FindBalance(ctx context.Context, companyID, employeeID string, year int) (*Balance, error)
	ListBalancesByYear(ctx context.Context, companyID string, year int) ([]Balance, error)
	SaveBalance(ctx context.Context, b *Balance) error
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

func (r *repository) Create(ctx context.Context, v *Vacation) error {
	return r.conn(ctx).Create(v).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListVacationsFilter) ([]Vacation, error) {
	db := r.conn(ctx).Scopes(tenant.Scope(companyID))

	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Year != 0 {
		db = db.Where("year = ?", filter.Year)
	}

	var vacations []Vacation
	err := db.Order("start_date DESC").Find(&vacations).Error
	return vacations, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Vacation, error) {
	var v Vacation
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&v, "id = ?", id).Error
	return &v, err
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var n int64
	err := r.conn(ctx).
		Table("users").
		Where("id = ? AND company_id = ? AND deleted_at IS NULL", employeeID, companyID).
		Count(&n).Error
	return n > 0, err
}

func (r *repository) Update(ctx context.Context, v *Vacation) error {
	return r.conn(ctx).Save(v).Error
}

func (r *repository) FindBalance(ctx context.Context, companyID, employeeID string, year int) (*Balance, error) {
	var b Balance
	err := r.conn(ctx).
		Where("company_id = ? AND employee_id = ? AND year = ?", companyID, employeeID, year).
		First(&b).Error
	return &b, err
}

func (r *repository) ListBalancesByYear(ctx context.Context, companyID string, year int) ([]Balance, error) {
	var balances []Balance
	err := r.conn(ctx).
		Where("company_id = ? AND year = ?", companyID, year).
		Find(&balances).Error
	return balances, err
}

func (r *repository) SaveBalance(ctx context.Context, b *Balance) error {
	return r.conn(ctx).Save(b).Error
}
