package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeFile  = "file"
	MessageTypeVideo = "video"
	MessageTypeAudio = "audio"
)

func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile, MessageTypeVideo, MessageTypeAudio:
		return true
	}
	return false
}

// Chat carries a denormalized last-message snapshot and per-user unread
// counters so the conversation list never joins against messages.
type Chat struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_chats_company"`
	Name      string    `gorm:"size:255"`
	IsGroup   bool      `gorm:"not null;default:false"`

	// Participants is a jsonb array of user ids, UnreadCounts a jsonb
	// object keyed by user id.
	Participants datatypes.JSON `gorm:"type:jsonb;not null"`
	UnreadCounts datatypes.JSON `gorm:"type:jsonb"`

	LastMessageContent  string     `gorm:"size:500"`
	LastMessageSenderID *uuid.UUID `gorm:"type:uuid"`
	LastMessageAt       *time.Time

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Message struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	ChatID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_chat_messages_chat"`
	SenderID      uuid.UUID  `gorm:"type:uuid;not null"`
	Content       string     `gorm:"type:text"`
	Type          string     `gorm:"size:20;not null;default:'text'"`
	AttachmentURL string     `gorm:"size:500"`
	ReplyToID     *uuid.UUID `gorm:"type:uuid"`

	// Reactions maps user id to emoji, ReadBy lists user ids.
	Reactions datatypes.JSON `gorm:"type:jsonb"`
	ReadBy    datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Message) TableName() string {
	return "chat_messages"
}
