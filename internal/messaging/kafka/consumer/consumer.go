package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"driftpro/internal/emailsettings"
	"driftpro/internal/events"
	"driftpro/internal/notification"
	"driftpro/internal/user"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const GroupID = "driftpro-notifications"

// NewReader subscribes the notification group to one lifecycle topic.
func NewReader(broker, topic string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{broker},
		GroupID: GroupID,
		Topic:   topic,
	})
}

// Consumer turns lifecycle events into notifications for the company's
// admins and department leaders, plus an email when the company enabled
// it. Offsets are committed only after the side effects ran; duplicate
// deliveries are absorbed by the notification dedupe index.
type Consumer struct {
	reader        *kafkago.Reader
	notifications notification.Service
	users         user.Repository
	email         emailsettings.Service
	logger        *zap.Logger
}

func New(
	reader *kafkago.Reader,
	notifications notification.Service,
	users user.Repository,
	email emailsettings.Service,
	logger ...*zap.Logger,
) *Consumer {
	l := zap.L().Named("kafka.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.consumer")
	}
	return &Consumer{
		reader:        reader,
		notifications: notifications,
		users:         users,
		email:         email,
		logger:        l,
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer started",
		zap.String("topic", c.reader.Config().Topic),
		zap.String("group_id", GroupID),
	)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if err := c.handle(ctx, msg); err != nil {
			// Leave the offset uncommitted; the message comes back and
			// already-created notifications dedupe on the event id.
			c.logger.Error("event handling failed",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("offset commit failed", zap.Error(err))
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) handle(ctx context.Context, msg kafkago.Message) error {
	eventID := headerValue(msg, "event_id")
	eventType := headerValue(msg, "event_type")

	switch eventType {
	case events.EventTypeAbsenceRequested:
		var ev events.AbsenceRequestedEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			c.logger.Warn("malformed absence event dropped", zap.Error(err))
			return nil
		}
		return c.notifyApprovers(ctx, approverNotice{
			EventID:   eventID,
			CompanyID: ev.CompanyID,
			Kind:      "absence",
			Type:      notification.TypeAbsenceRequest,
			Title:     "New absence request",
			Message:   fmt.Sprintf("An absence (%s) was requested for %s to %s.", ev.Type, ev.StartDate, ev.EndDate),
			Metadata: map[string]any{
				"absenceId":  ev.AbsenceID,
				"employeeId": ev.EmployeeID,
			},
		})

	case events.EventTypeVacationRequested:
		var ev events.VacationRequestedEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			c.logger.Warn("malformed vacation event dropped", zap.Error(err))
			return nil
		}
		return c.notifyApprovers(ctx, approverNotice{
			EventID:   eventID,
			CompanyID: ev.CompanyID,
			Kind:      "vacation",
			Type:      notification.TypeVacationRequest,
			Title:     "New vacation request",
			Message:   fmt.Sprintf("A vacation of %d days was requested for %s to %s.", ev.DaysRequested, ev.StartDate, ev.EndDate),
			Metadata: map[string]any{
				"vacationId": ev.VacationID,
				"employeeId": ev.EmployeeID,
			},
		})
	}

	c.logger.Debug("event type ignored", zap.String("event_type", eventType))
	return nil
}

type approverNotice struct {
	EventID   string
	CompanyID string
	Kind      string
	Type      string
	Title     string
	Message   string
	Metadata  map[string]any
}

func (c *Consumer) notifyApprovers(ctx context.Context, n approverNotice) error {
	approvers, err := c.users.FindAdminsAndLeaders(ctx, n.CompanyID, nil)
	if err != nil {
		return err
	}

	for _, approver := range approvers {
		sourceEventID := n.EventID + ":" + approver.ID.String()
		err := c.notifications.CreateFromEvent(ctx, n.CompanyID, notification.CreateNotificationRequest{
			UserID:   approver.ID.String(),
			Title:    n.Title,
			Message:  n.Message,
			Type:     n.Type,
			Priority: notification.PriorityHigh,
			Metadata: n.Metadata,
		}, sourceEventID)
		if err != nil {
			return err
		}

		if c.email != nil && approver.Email != "" {
			if err := c.email.SendNotificationEmail(ctx, n.CompanyID, n.Kind, approver.Email, n.Title, "<p>"+n.Message+"</p>"); err != nil {
				// Email is best effort; the in-app notification stands.
				c.logger.Warn("notification email skipped",
					zap.String("recipient", approver.Email),
					zap.Error(err),
				)
			}
		}
	}

	c.logger.Info("event fanned out",
		zap.String("event_id", n.EventID),
		zap.String("company_id", n.CompanyID),
		zap.Int("approvers", len(approvers)),
	)
	return nil
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
