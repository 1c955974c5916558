package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	chaterrors "driftpro/internal/chat/errors"
	"driftpro/internal/realtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Broadcaster is the slice of the realtime hub this service pushes to.
type Broadcaster interface {
	Broadcast(event realtime.Event, target realtime.Target)
}

//go:generate mockgen -source=chat_service.go -destination=mock/chat_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, creatorID string, req CreateChatRequest) (ChatResponse, error)
	GetAll(ctx context.Context, companyID, userID string) ([]ChatResponse, error)
	GetByID(ctx context.Context, companyID, userID, id string) (ChatResponse, error)
	SendMessage(ctx context.Context, companyID, senderID, chatID string, req SendMessageRequest) (MessageResponse, error)
	GetMessages(ctx context.Context, companyID, userID, chatID string, filter ListMessagesFilter) ([]MessageResponse, error)
	MarkRead(ctx context.Context, companyID, userID, chatID string) (ChatResponse, error)
	React(ctx context.Context, companyID, userID, messageID, emoji string) (MessageResponse, error)
	DeleteMessage(ctx context.Context, companyID, userID, messageID string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	hub    Broadcaster
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, hub Broadcaster, logger ...*zap.Logger) Service {
	l := zap.L().Named("chat.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("chat.service")
	}
	return &service{db: db, repo: repo, hub: hub, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, creatorID string, req CreateChatRequest) (ChatResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ChatResponse{}, chaterrors.ErrInvalidCompanyID
	}
	creatorUUID, err := uuid.Parse(creatorID)
	if err != nil {
		return ChatResponse{}, chaterrors.ErrInvalidParticipants
	}

	participants := dedupeParticipants(append(req.ParticipantIDs, creatorID))
	if !req.IsGroup && len(participants) != 2 {
		return ChatResponse{}, chaterrors.ErrDirectChatSize
	}

	n, err := s.repo.CountCompanyUsers(ctx, companyID, participants)
	if err != nil {
		return ChatResponse{}, err
	}
	if n != int64(len(participants)) {
		return ChatResponse{}, chaterrors.ErrInvalidParticipants
	}

	unread := make(map[string]int, len(participants))
	for _, p := range participants {
		unread[p] = 0
	}

	c := &Chat{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Name:      strings.TrimSpace(req.Name),
		IsGroup:   req.IsGroup,
		CreatedBy: creatorUUID,
	}
	c.Participants, _ = json.Marshal(participants)
	c.UnreadCounts, _ = json.Marshal(unread)

	if err := s.repo.CreateChat(ctx, c); err != nil {
		return ChatResponse{}, err
	}

	s.logger.Info("create chat success",
		zap.String("chat_id", c.ID.String()),
		zap.Bool("is_group", c.IsGroup),
		zap.Int("participants", len(participants)),
	)
	return mapChatToResponse(*c, creatorID), nil
}

func (s *service) GetAll(ctx context.Context, companyID, userID string) ([]ChatResponse, error) {
	chats, err := s.repo.FindAllByParticipant(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	res := make([]ChatResponse, len(chats))
	for i, c := range chats {
		res[i] = mapChatToResponse(c, userID)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, companyID, userID, id string) (ChatResponse, error) {
	c, err := s.loadMemberChat(ctx, s.repo, companyID, userID, id)
	if err != nil {
		return ChatResponse{}, err
	}
	return mapChatToResponse(*c, userID), nil
}

// SendMessage persists the message, refreshes the chat snapshot and bumps
// every other participant's unread counter in one transaction, then fans
// the message out over the realtime hub.
func (s *service) SendMessage(ctx context.Context, companyID, senderID, chatID string, req SendMessageRequest) (MessageResponse, error) {
	if req.Type == "" {
		req.Type = MessageTypeText
	}
	if !ValidMessageType(req.Type) {
		return MessageResponse{}, chaterrors.ErrInvalidMessageType
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && req.AttachmentURL == "" {
		return MessageResponse{}, chaterrors.ErrEmptyMessage
	}

	senderUUID, err := uuid.Parse(senderID)
	if err != nil {
		return MessageResponse{}, chaterrors.ErrChatNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MessageResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := s.loadMemberChat(ctx, qtx, companyID, senderID, chatID)
	if err != nil {
		return MessageResponse{}, err
	}

	m := &Message{
		ID:            uuid.New(),
		CompanyID:     c.CompanyID,
		ChatID:        c.ID,
		SenderID:      senderUUID,
		Content:       content,
		Type:          req.Type,
		AttachmentURL: req.AttachmentURL,
	}
	if req.ReplyToID != nil {
		replyTo, err := uuid.Parse(*req.ReplyToID)
		if err != nil {
			return MessageResponse{}, chaterrors.ErrMessageNotFound
		}
		if _, err := qtx.FindMessageByID(ctx, companyID, replyTo.String()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return MessageResponse{}, chaterrors.ErrMessageNotFound
			}
			return MessageResponse{}, err
		}
		m.ReplyToID = &replyTo
	}
	m.ReadBy, _ = json.Marshal([]string{senderID})

	if err := qtx.CreateMessage(ctx, m); err != nil {
		return MessageResponse{}, err
	}

	now := time.Now().UTC()
	c.LastMessageContent = snippet(content, req.Type)
	c.LastMessageSenderID = &m.SenderID
	c.LastMessageAt = &now

	unread := unreadOf(c)
	for _, p := range participantsOf(c) {
		if p != senderID {
			unread[p]++
		}
	}
	c.UnreadCounts, _ = json.Marshal(unread)

	if err := qtx.UpdateChat(ctx, c); err != nil {
		return MessageResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return MessageResponse{}, err
	}

	resp := mapMessageToResponse(*m)
	if s.hub != nil {
		for _, p := range participantsOf(c) {
			s.hub.Broadcast(realtime.Event{
				Type:      "chat.message",
				Payload:   resp,
				CreatedAt: now,
			}, realtime.Target{
				CompanyID: companyID,
				UserID:    p,
				Channel:   realtime.ChannelChat,
			})
		}
	}
	return resp, nil
}

func (s *service) GetMessages(ctx context.Context, companyID, userID, chatID string, filter ListMessagesFilter) ([]MessageResponse, error) {
	if _, err := s.loadMemberChat(ctx, s.repo, companyID, userID, chatID); err != nil {
		return nil, err
	}
	messages, err := s.repo.FindMessages(ctx, companyID, chatID, filter)
	if err != nil {
		return nil, err
	}
	res := make([]MessageResponse, len(messages))
	for i, m := range messages {
		res[i] = mapMessageToResponse(m)
	}
	return res, nil
}

// MarkRead zeroes the caller's unread counter and stamps them into
// read_by on every message they had not read yet.
func (s *service) MarkRead(ctx context.Context, companyID, userID, chatID string) (ChatResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ChatResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := s.loadMemberChat(ctx, qtx, companyID, userID, chatID)
	if err != nil {
		return ChatResponse{}, err
	}

	unread := unreadOf(c)
	unread[userID] = 0
	c.UnreadCounts, _ = json.Marshal(unread)

	if err := qtx.UpdateChat(ctx, c); err != nil {
		return ChatResponse{}, err
	}
	if err := qtx.MarkMessagesRead(ctx, companyID, chatID, userID); err != nil {
		return ChatResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ChatResponse{}, err
	}
	return mapChatToResponse(*c, userID), nil
}

// React sets the caller's reaction on a message; an empty emoji removes it.
func (s *service) React(ctx context.Context, companyID, userID, messageID, emoji string) (MessageResponse, error) {
	m, err := s.repo.FindMessageByID(ctx, companyID, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MessageResponse{}, chaterrors.ErrMessageNotFound
		}
		return MessageResponse{}, err
	}
	if _, err := s.loadMemberChat(ctx, s.repo, companyID, userID, m.ChatID.String()); err != nil {
		return MessageResponse{}, chaterrors.ErrMessageNotFound
	}

	reactions := reactionsOf(m)
	if emoji == "" {
		delete(reactions, userID)
	} else {
		reactions[userID] = emoji
	}
	m.Reactions, _ = json.Marshal(reactions)

	if err := s.repo.UpdateMessage(ctx, m); err != nil {
		return MessageResponse{}, err
	}
	return mapMessageToResponse(*m), nil
}

func (s *service) DeleteMessage(ctx context.Context, companyID, userID, messageID string) error {
	m, err := s.repo.FindMessageByID(ctx, companyID, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chaterrors.ErrMessageNotFound
		}
		return err
	}
	if m.SenderID.String() != userID {
		return chaterrors.ErrNotMessageSender
	}
	return s.repo.DeleteMessage(ctx, companyID, messageID)
}

// loadMemberChat resolves the chat only for its participants; anyone else
// gets not-found.
func (s *service) loadMemberChat(ctx context.Context, repo Repository, companyID, userID, chatID string) (*Chat, error) {
	c, err := repo.FindByIDAndCompany(ctx, companyID, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, chaterrors.ErrChatNotFound
		}
		return nil, err
	}
	for _, p := range participantsOf(c) {
		if p == userID {
			return c, nil
		}
	}
	return nil, chaterrors.ErrChatNotFound
}

func dedupeParticipants(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func participantsOf(c *Chat) []string {
	var ids []string
	_ = json.Unmarshal(c.Participants, &ids)
	return ids
}

func unreadOf(c *Chat) map[string]int {
	counts := map[string]int{}
	if len(c.UnreadCounts) > 0 {
		_ = json.Unmarshal(c.UnreadCounts, &counts)
	}
	return counts
}

func reactionsOf(m *Message) map[string]string {
	reactions := map[string]string{}
	if len(m.Reactions) > 0 {
		_ = json.Unmarshal(m.Reactions, &reactions)
	}
	return reactions
}

func snippet(content, msgType string) string {
	if content == "" {
		return "[" + msgType + "]"
	}
	if runes := []rune(content); len(runes) > 500 {
		return string(runes[:500])
	}
	return content
}

func mapChatToResponse(c Chat, viewerID string) ChatResponse {
	resp := ChatResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		IsGroup:      c.IsGroup,
		Participants: participantsOf(&c),
		UnreadCount:  unreadOf(&c)[viewerID],
		CreatedBy:    c.CreatedBy.String(),
		CreatedAt:    c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if c.LastMessageAt != nil {
		info := &LastMessageInfo{Content: c.LastMessageContent}
		if c.LastMessageSenderID != nil {
			sender := c.LastMessageSenderID.String()
			info.SenderID = &sender
		}
		at := c.LastMessageAt.UTC().Format(time.RFC3339)
		info.SentAt = &at
		resp.LastMessage = info
	}
	return resp
}

func mapMessageToResponse(m Message) MessageResponse {
	resp := MessageResponse{
		ID:            m.ID.String(),
		ChatID:        m.ChatID.String(),
		SenderID:      m.SenderID.String(),
		Content:       m.Content,
		Type:          m.Type,
		AttachmentURL: m.AttachmentURL,
		Reactions:     reactionsOf(&m),
		ReadBy:        []string{},
		CreatedAt:     m.CreatedAt.UTC().Format(time.RFC3339),
	}
	if m.ReplyToID != nil {
		id := m.ReplyToID.String()
		resp.ReplyToID = &id
	}
	if len(m.ReadBy) > 0 {
		_ = json.Unmarshal(m.ReadBy, &resp.ReadBy)
	}
	if len(resp.Reactions) == 0 {
		resp.Reactions = nil
	}
	return resp
}
