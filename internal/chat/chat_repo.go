package chat

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"driftpro/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=chat_repo.go -destination=mock/chat_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateChat(ctx context.Context, c *Chat) error
	FindAllByParticipant(ctx context.Context, companyID, userID string) ([]Chat, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Chat, error)
	UpdateChat(ctx context.Context, c *Chat) error

	CreateMessage(ctx context.Context, m *Message) error
	FindMessages(ctx context.Context, companyID, chatID string, filter ListMessagesFilter) ([]Message, error)
	FindMessageByID(ctx context.Context, companyID, id string) (*Message, error)
	UpdateMessage(ctx context.Context, m *Message) error
	DeleteMessage(ctx context.Context, companyID, id string) error
	MarkMessagesRead(ctx context.Context, companyID, chatID, userID string) error

	CountCompanyUsers(ctx context.Context, companyID string, userIDs []string) (int64, error)
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

func (r *repository) CreateChat(ctx context.Context, c *Chat) error {
	return r.conn(ctx).Create(c).Error
}

func (r *repository) FindAllByParticipant(ctx context.Context, companyID, userID string) ([]Chat, error) {
	var chats []Chat
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("participants @> ?", fmt.Sprintf("[%q]", userID)).
		Order("last_message_at DESC NULLS LAST, created_at DESC").
		Find(&chats).Error
	return chats, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Chat, error) {
	var c Chat
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) UpdateChat(ctx context.Context, c *Chat) error {
	return r.conn(ctx).Save(c).Error
}

func (r *repository) CreateMessage(ctx context.Context, m *Message) error {
	return r.conn(ctx).Create(m).Error
}

func (r *repository) FindMessages(ctx context.Context, companyID, chatID string, filter ListMessagesFilter) ([]Message, error) {
	db := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("chat_id = ?", chatID)

	if filter.Before != "" {
		if before, err := time.Parse(time.RFC3339, filter.Before); err == nil {
			db = db.Where("created_at < ?", before)
		}
	}

	limit := filter.Limit
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var messages []Message
	err := db.Order("created_at DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

func (r *repository) FindMessageByID(ctx context.Context, companyID, id string) (*Message, error) {
	var m Message
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&m, "id = ?", id).Error
	return &m, err
}

func (r *repository) UpdateMessage(ctx context.Context, m *Message) error {
	return r.conn(ctx).Save(m).Error
}

func (r *repository) DeleteMessage(ctx context.Context, companyID, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Message{}, "id = ?", id).Error
}

// MarkMessagesRead appends the reader to read_by on every message of the
// chat that does not carry them yet. Own messages count as read.
func (r *repository) MarkMessagesRead(ctx context.Context, companyID, chatID, userID string) error {
	return r.conn(ctx).Exec(`
		UPDATE chat_messages
		SET read_by = COALESCE(read_by, '[]'::jsonb) || to_jsonb(?::text)
		WHERE company_id = ?
		  AND chat_id = ?
		  AND deleted_at IS NULL
		  AND NOT COALESCE(read_by, '[]'::jsonb) @> to_jsonb(?::text)`,
		userID, companyID, chatID, userID,
	).Error
}

func (r *repository) CountCompanyUsers(ctx context.Context, companyID string, userIDs []string) (int64, error) {
	var n int64
	err := r.conn(ctx).
		Table("users").
		Scopes(tenant.Scope(companyID)).
		Where("id IN ? AND deleted_at IS NULL", userIDs).
		Count(&n).Error
	return n, err
}
