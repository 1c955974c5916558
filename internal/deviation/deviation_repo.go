package deviation

import (
	"context"
	"database/sql"

	"driftpro/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=deviation_repo.go -destination=mock/deviation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, d *Deviation) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListDeviationsFilter) ([]Deviation, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Deviation, error)
	Update(ctx context.Context, d *Deviation) error
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

func (r *repository) Create(ctx context.Context, d *Deviation) error {
	return r.conn(ctx).Create(d).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListDeviationsFilter) ([]Deviation, error) {
	db := r.conn(ctx).Scopes(tenant.Scope(companyID))

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		db = db.Where("priority = ?", filter.Priority)
	}
	if filter.Assignee != "" {
		db = db.Where("assigned_to = ?", filter.Assignee)
	}

	var deviations []Deviation
	err := db.Order("created_at DESC").Find(&deviations).Error
	return deviations, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Deviation, error) {
	var d Deviation
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&d, "id = ?", id).Error
	return &d, err
}

func (r *repository) Update(ctx context.Context, d *Deviation) error {
	return r.conn(ctx).Save(d).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Deviation{}, "id = ?", id).Error
}
