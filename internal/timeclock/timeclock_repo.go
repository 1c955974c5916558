package timeclock

import (
	"context"
	"database/sql"
	"time"

	"driftpro/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=timeclock_repo.go -destination=mock/timeclock_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, e *Entry) error
	FindOpenByEmployee(ctx context.Context, companyID, employeeID string) (*Entry, error)
	FindAllByCompany(ctx context.Context, companyID string, filter ListEntriesFilter) ([]Entry, error)
	Update(ctx context.Context, e *Entry) error
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

func (r *repository) Create(ctx context.Context, e *Entry) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) FindOpenByEmployee(ctx context.Context, companyID, employeeID string) (*Entry, error) {
	var e Entry
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND clock_out IS NULL", employeeID).
		First(&e).Error
	return &e, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListEntriesFilter) ([]Entry, error) {
	db := r.conn(ctx).Scopes(tenant.Scope(companyID))

	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.From != "" {
		if from, err := time.Parse("2006-01-02", filter.From); err == nil {
			db = db.Where("clock_in >= ?", from)
		}
	}
	if filter.To != "" {
		if to, err := time.Parse("2006-01-02", filter.To); err == nil {
			db = db.Where("clock_in < ?", to.AddDate(0, 0, 1))
		}
	}

	var entries []Entry
	err := db.Order("clock_in DESC").Find(&entries).Error
	return entries, err
}

func (r *repository) Update(ctx context.Context, e *Entry) error {
	return r.conn(ctx).Save(e).Error
}
