package notification

import (
	"context"
	"database/sql"

	"driftpro/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, n *Notification) error
	FindAllByUser(ctx context.Context, companyID, userID string, filter ListNotificationsFilter) ([]Notification, error)
	FindByIDAndUser(ctx context.Context, companyID, userID, id string) (*Notification, error)
	CountUnread(ctx context.Context, companyID, userID string) (int64, error)
	Update(ctx context.Context, n *Notification) error
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

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.conn(ctx).Create(n).Error
}

func (r *repository) FindAllByUser(ctx context.Context, companyID, userID string, filter ListNotificationsFilter) ([]Notification, error) {
	db := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("user_id = ?", userID)

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}

	var notifications []Notification
	err := db.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (r *repository) FindByIDAndUser(ctx context.Context, companyID, userID, id string) (*Notification, error) {
	var n Notification
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("user_id = ?", userID).
		First(&n, "id = ?", id).Error
	return &n, err
}

func (r *repository) CountUnread(ctx context.Context, companyID, userID string) (int64, error) {
	var n int64
	err := r.conn(ctx).
		Model(&Notification{}).
		Scopes(tenant.Scope(companyID)).
		Where("user_id = ? AND status = ?", userID, StatusUnread).
		Count(&n).Error
	return n, err
}

func (r *repository) Update(ctx context.Context, n *Notification) error {
	return r.conn(ctx).Save(n).Error
}
