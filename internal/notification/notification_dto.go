package notification

import "gorm.io/datatypes"

type CreateNotificationRequest struct {
	UserID   string         `json:"userId" binding:"required,uuid"`
	Title    string         `json:"title" binding:"required"`
	Message  string         `json:"message"`
	Type     string         `json:"type"`
	Priority string         `json:"priority"`
	Metadata map[string]any `json:"metadata"`
}

type ListNotificationsFilter struct {
	Status string `form:"status"`
	Type   string `form:"type"`
}

type BulkMarkReadRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// BulkItemResult reports the outcome for one id of a bulk action; the
// batch never fails as a whole.
type BulkItemResult struct {
	ID    string `json:"id"`
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type NotificationResponse struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	Title      string         `json:"title"`
	Message    string         `json:"message,omitempty"`
	Type       string         `json:"type"`
	Priority   string         `json:"priority"`
	Status     string         `json:"status"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
	ReadAt     *string        `json:"readAt,omitempty"`
	ArchivedAt *string        `json:"archivedAt,omitempty"`
	CreatedAt  string         `json:"createdAt"`
}
