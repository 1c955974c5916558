package absence

import (
	"context"
	"database/sql"

	"driftpro/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=absence_repo.go -destination=mock/absence_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Absence) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListAbsencesFilter) ([]Absence, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Absence, error)
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
	Update(ctx context.Context, a *Absence) error
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

func (r *repository) Create(ctx context.Context, a *Absence) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListAbsencesFilter) ([]Absence, error) {
	db := r.conn(ctx).Scopes(tenant.Scope(companyID))

	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}

	var absences []Absence
	err := db.Order("start_date DESC").Find(&absences).Error
	return absences, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Absence, error) {
	var a Absence
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var n int64
	err := r.conn(ctx).
		Table("users").
		Where("id = ? AND company_id = ? AND deleted_at IS NULL", employeeID, companyID).
		Count(&n).Error
	return n > 0, err
}

func (r *repository) Update(ctx context.Context, a *Absence) error {
	return r.conn(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Absence{}, "id = ?", id).Error
}
