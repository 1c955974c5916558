package emailsettings

import (
	"context"
	"database/sql"
	"time"

	"driftpro/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=emailsettings_repo.go -destination=mock/emailsettings_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	FindByCompany(ctx context.Context, companyID string) (*Settings, error)
	Upsert(ctx context.Context, s *Settings) error

	CreateLog(ctx context.Context, l *Log) error
	FindLogs(ctx context.Context, companyID string, limit int) ([]Log, error)
	CountSentSince(ctx context.Context, companyID string, since time.Time) (int64, error)
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

func (r *repository) FindByCompany(ctx context.Context, companyID string) (*Settings, error) {
	var s Settings
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&s).Error
	return &s, err
}

// Upsert keeps the per-company singleton: a concurrent first save lands
// on the unique index and turns into an update.
func (r *repository) Upsert(ctx context.Context, s *Settings) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}},
			UpdateAll: true,
		}).
		Create(s).Error
}

func (r *repository) CreateLog(ctx context.Context, l *Log) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindLogs(ctx context.Context, companyID string, limit int) ([]Log, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var logs []Log
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *repository) CountSentSince(ctx context.Context, companyID string, since time.Time) (int64, error) {
	var n int64
	err := r.conn(ctx).
		Model(&Log{}).
		Scopes(tenant.Scope(companyID)).
		Where("status = ? AND created_at >= ?", LogStatusSent, since).
		Count(&n).Error
	return n, err
}
