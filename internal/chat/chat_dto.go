package chat

type CreateChatRequest struct {
	ParticipantIDs []string `json:"participantIds" binding:"required,min=1,dive,uuid"`
	IsGroup        bool     `json:"isGroup"`
	Name           string   `json:"name"`
}

type SendMessageRequest struct {
	Content       string  `json:"content"`
	Type          string  `json:"type"`
	AttachmentURL string  `json:"attachmentUrl"`
	ReplyToID     *string `json:"replyToId"`
}

type ReactRequest struct {
	Emoji string `json:"emoji"`
}

type ListMessagesFilter struct {
	Before string `form:"before"`
	Limit  int    `form:"limit"`
}

type LastMessageInfo struct {
	Content  string  `json:"content"`
	SenderID *string `json:"senderId,omitempty"`
	SentAt   *string `json:"sentAt,omitempty"`
}

type ChatResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name,omitempty"`
	IsGroup      bool             `json:"isGroup"`
	Participants []string         `json:"participants"`
	UnreadCount  int              `json:"unreadCount"`
	LastMessage  *LastMessageInfo `json:"lastMessage,omitempty"`
	CreatedBy    string           `json:"createdBy"`
	CreatedAt    string           `json:"createdAt"`
}

type MessageResponse struct {
	ID            string            `json:"id"`
	ChatID        string            `json:"chatId"`
	SenderID      string            `json:"senderId"`
	Content       string            `json:"content,omitempty"`
	Type          string            `json:"type"`
	AttachmentURL string            `json:"attachmentUrl,omitempty"`
	ReplyToID     *string           `json:"replyToId,omitempty"`
	Reactions     map[string]string `json:"reactions,omitempty"`
	ReadBy        []string          `json:"readBy"`
	CreatedAt     string            `json:"createdAt"`
}
