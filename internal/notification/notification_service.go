package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	notificationerrors "driftpro/internal/notification/errors"
	"driftpro/internal/realtime"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Broadcaster is the slice of the realtime hub this service pushes to.
type Broadcaster interface {
	Broadcast(event realtime.Event, target realtime.Target)
}

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateNotificationRequest) (NotificationResponse, error)
	CreateFromEvent(ctx context.Context, companyID string, req CreateNotificationRequest, sourceEventID string) error
	GetAll(ctx context.Context, companyID, userID string, filter ListNotificationsFilter) ([]NotificationResponse, error)
	UnreadCount(ctx context.Context, companyID, userID string) (int64, error)
	MarkRead(ctx context.Context, companyID, userID, id string) (NotificationResponse, error)
	Archive(ctx context.Context, companyID, userID, id string) (NotificationResponse, error)
	BulkMarkRead(ctx context.Context, companyID, userID string, ids []string) []BulkItemResult
}

type service struct {
	db     *sql.DB
	repo   Repository
	hub    Broadcaster
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, hub Broadcaster, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{db: db, repo: repo, hub: hub, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateNotificationRequest) (NotificationResponse, error) {
	n, err := s.create(ctx, companyID, req, nil)
	if err != nil {
		return NotificationResponse{}, err
	}
	return mapToResponse(*n), nil
}

// CreateFromEvent is the consumer entry point. The source event id is
// stored under a unique index, so a redelivered Kafka message creates
// nothing the second time.
func (s *service) CreateFromEvent(ctx context.Context, companyID string, req CreateNotificationRequest, sourceEventID string) error {
	_, err := s.create(ctx, companyID, req, &sourceEventID)
	if err != nil {
		if isDuplicateSourceEvent(err) {
			s.logger.Debug("duplicate event delivery ignored",
				zap.String("source_event_id", sourceEventID),
			)
			return nil
		}
		return err
	}
	return nil
}

func (s *service) create(ctx context.Context, companyID string, req CreateNotificationRequest, sourceEventID *string) (*Notification, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, notificationerrors.ErrInvalidCompanyID
	}
	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, notificationerrors.ErrInvalidUserID
	}
	if req.Type == "" {
		req.Type = TypeSystem
	}
	if !ValidType(req.Type) {
		return nil, notificationerrors.ErrInvalidNotificationType
	}
	if req.Priority == "" {
		req.Priority = PriorityMedium
	}

	n := &Notification{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		UserID:        userUUID,
		Title:         req.Title,
		Message:       req.Message,
		Type:          req.Type,
		Priority:      req.Priority,
		Status:        StatusUnread,
		SourceEventID: sourceEventID,
	}
	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, err
		}
		n.Metadata = raw
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, n); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Broadcast(realtime.Event{
			Type:      "notification.created",
			Payload:   mapToResponse(*n),
			CreatedAt: time.Now().UTC(),
		}, realtime.Target{
			CompanyID: companyID,
			UserID:    req.UserID,
			Channel:   realtime.ChannelNotifications,
		})
	}

	s.logger.Info("create notification success",
		zap.String("notification_id", n.ID.String()),
		zap.String("user_id", req.UserID),
		zap.String("type", n.Type),
	)
	return n, nil
}

func (s *service) GetAll(ctx context.Context, companyID, userID string, filter ListNotificationsFilter) ([]NotificationResponse, error) {
	notifications, err := s.repo.FindAllByUser(ctx, companyID, userID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(notifications), nil
}

func (s *service) UnreadCount(ctx context.Context, companyID, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, companyID, userID)
}

func (s *service) MarkRead(ctx context.Context, companyID, userID, id string) (NotificationResponse, error) {
	return s.transitionStatus(ctx, companyID, userID, id, StatusRead)
}

func (s *service) Archive(ctx context.Context, companyID, userID, id string) (NotificationResponse, error) {
	return s.transitionStatus(ctx, companyID, userID, id, StatusArchived)
}

// transitionStatus enforces the forward-only lifecycle. Repeating the
// current state is a no-op success; going backwards is an error.
func (s *service) transitionStatus(ctx context.Context, companyID, userID, id, targetStatus string) (NotificationResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return NotificationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	n, err := qtx.FindByIDAndUser(ctx, companyID, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotificationResponse{}, notificationerrors.ErrNotificationNotFound
		}
		return NotificationResponse{}, err
	}

	if n.Status == targetStatus {
		return mapToResponse(*n), nil
	}
	if statusRank(targetStatus) < statusRank(n.Status) {
		return NotificationResponse{}, notificationerrors.ErrBackwardsTransition
	}

	now := time.Now().UTC()
	n.Status = targetStatus
	switch targetStatus {
	case StatusRead:
		n.ReadAt = &now
	case StatusArchived:
		if n.ReadAt == nil {
			n.ReadAt = &now
		}
		n.ArchivedAt = &now
	}

	if err := qtx.Update(ctx, n); err != nil {
		return NotificationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return NotificationResponse{}, err
	}

	return mapToResponse(*n), nil
}

// BulkMarkRead settles every id and reports per-item outcomes; one bad
// id never fails the batch.
func (s *service) BulkMarkRead(ctx context.Context, companyID, userID string, ids []string) []BulkItemResult {
	results := make([]BulkItemResult, len(ids))
	for i, id := range ids {
		_, err := s.MarkRead(ctx, companyID, userID, id)
		results[i] = BulkItemResult{ID: id, Ok: err == nil}
		if err != nil {
			results[i].Error = err.Error()
		}
	}
	return results
}

func isDuplicateSourceEvent(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		UserID:    n.UserID.String(),
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Priority:  n.Priority,
		Status:    n.Status,
		Metadata:  n.Metadata,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		at := n.ReadAt.UTC().Format(time.RFC3339)
		resp.ReadAt = &at
	}
	if n.ArchivedAt != nil {
		at := n.ArchivedAt.UTC().Format(time.RFC3339)
		resp.ArchivedAt = &at
	}
	return resp
}

func mapToListResponse(notifications []Notification) []NotificationResponse {
	res := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		res[i] = mapToResponse(n)
	}
	return res
}
