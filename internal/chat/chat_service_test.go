package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	chaterrors "driftpro/internal/chat/errors"
	"driftpro/internal/realtime"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	createChatFn           func(ctx context.Context, c *Chat) error
	findAllByParticipantFn func(ctx context.Context, companyID, userID string) ([]Chat, error)
	findByIDAndCompanyFn   func(ctx context.Context, companyID, id string) (*Chat, error)
	updateChatFn           func(ctx context.Context, c *Chat) error
	createMessageFn        func(ctx context.Context, m *Message) error
	findMessagesFn         func(ctx context.Context, companyID, chatID string, filter ListMessagesFilter) ([]Message, error)
	findMessageByIDFn      func(ctx context.Context, companyID, id string) (*Message, error)
	updateMessageFn        func(ctx context.Context, m *Message) error
	deleteMessageFn        func(ctx context.Context, companyID, id string) error
	markMessagesReadFn     func(ctx context.Context, companyID, chatID, userID string) error
	countCompanyUsersFn    func(ctx context.Context, companyID string, userIDs []string) (int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                  { return f }
func (f *fakeRepo) CreateChat(ctx context.Context, c *Chat) error { return f.createChatFn(ctx, c) }
func (f *fakeRepo) FindAllByParticipant(ctx context.Context, companyID, userID string) ([]Chat, error) {
	return f.findAllByParticipantFn(ctx, companyID, userID)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Chat, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}
func (f *fakeRepo) UpdateChat(ctx context.Context, c *Chat) error { return f.updateChatFn(ctx, c) }
func (f *fakeRepo) CreateMessage(ctx context.Context, m *Message) error {
	return f.createMessageFn(ctx, m)
}
func (f *fakeRepo) FindMessages(ctx context.Context, companyID, chatID string, filter ListMessagesFilter) ([]Message, error) {
	return f.findMessagesFn(ctx, companyID, chatID, filter)
}
func (f *fakeRepo) FindMessageByID(ctx context.Context, companyID, id string) (*Message, error) {
	return f.findMessageByIDFn(ctx, companyID, id)
}
func (f *fakeRepo) UpdateMessage(ctx context.Context, m *Message) error {
	return f.updateMessageFn(ctx, m)
}
func (f *fakeRepo) DeleteMessage(ctx context.Context, companyID, id string) error {
	return f.deleteMessageFn(ctx, companyID, id)
}
func (f *fakeRepo) MarkMessagesRead(ctx context.Context, companyID, chatID, userID string) error {
	return f.markMessagesReadFn(ctx, companyID, chatID, userID)
}
func (f *fakeRepo) CountCompanyUsers(ctx context.Context, companyID string, userIDs []string) (int64, error) {
	return f.countCompanyUsersFn(ctx, companyID, userIDs)
}

type fakeHub struct {
	events []realtime.Event
	metas  []realtime.Target
}

func (f *fakeHub) Broadcast(event realtime.Event, target realtime.Target) {
	f.events = append(f.events, event)
	f.metas = append(f.metas, target)
}

func memberChat(companyID string, participants ...string) *Chat {
	c := &Chat{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		IsGroup:   len(participants) > 2,
		CreatedBy: uuid.MustParse(participants[0]),
	}
	c.Participants, _ = json.Marshal(participants)
	unread := make(map[string]int, len(participants))
	for _, p := range participants {
		unread[p] = 0
	}
	c.UnreadCounts, _ = json.Marshal(unread)
	return c
}

func TestService_Create_DirectChatNeedsExactlyTwo(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, nil)

	_, err := svc.Create(context.Background(), uuid.New().String(), uuid.New().String(), CreateChatRequest{
		ParticipantIDs: []string{uuid.New().String(), uuid.New().String()},
		IsGroup:        false,
	})
	assert.ErrorIs(t, err, chaterrors.ErrDirectChatSize)
}

func TestService_Create_RejectsForeignParticipants(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		countCompanyUsersFn: func(ctx context.Context, companyID string, userIDs []string) (int64, error) {
			return int64(len(userIDs)) - 1, nil
		},
	}
	svc := NewService(db, repo, nil)

	_, err := svc.Create(context.Background(), uuid.New().String(), uuid.New().String(), CreateChatRequest{
		ParticipantIDs: []string{uuid.New().String()},
	})
	assert.ErrorIs(t, err, chaterrors.ErrInvalidParticipants)
}

func TestService_Create_DeduplicatesCreator(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	creatorID := uuid.New().String()
	otherID := uuid.New().String()

	var saved *Chat
	repo := &fakeRepo{
		countCompanyUsersFn: func(ctx context.Context, companyID string, userIDs []string) (int64, error) {
			return int64(len(userIDs)), nil
		},
		createChatFn: func(ctx context.Context, c *Chat) error { saved = c; return nil },
	}
	svc := NewService(db, repo, nil)

	// the creator also lists themselves; the chat still holds two members
	resp, err := svc.Create(context.Background(), uuid.New().String(), creatorID, CreateChatRequest{
		ParticipantIDs: []string{creatorID, otherID},
	})
	assert.NoError(t, err)
	assert.Len(t, resp.Participants, 2)

	var participants []string
	assert.NoError(t, json.Unmarshal(saved.Participants, &participants))
	assert.ElementsMatch(t, []string{creatorID, otherID}, participants)
}

func TestService_SendMessage_UpdatesSnapshotAndUnread(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	sender := uuid.New().String()
	other := uuid.New().String()
	c := memberChat(companyID, sender, other)

	var savedChat *Chat
	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*Chat, error) { return c, nil },
		createMessageFn:      func(ctx context.Context, m *Message) error { return nil },
		updateChatFn:         func(ctx context.Context, updated *Chat) error { savedChat = updated; return nil },
	}
	hub := &fakeHub{}
	svc := NewService(db, repo, hub)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.SendMessage(context.Background(), companyID, sender, c.ID.String(), SendMessageRequest{
		Content: "Hei, kan du ta vakten min i morgen?",
	})
	assert.NoError(t, err)
	assert.Equal(t, MessageTypeText, resp.Type)
	assert.Equal(t, []string{sender}, resp.ReadBy)

	var unread map[string]int
	assert.NoError(t, json.Unmarshal(savedChat.UnreadCounts, &unread))
	assert.Equal(t, 0, unread[sender])
	assert.Equal(t, 1, unread[other])
	assert.Equal(t, "Hei, kan du ta vakten min i morgen?", savedChat.LastMessageContent)

	// one push per participant on the chat channel
	assert.Len(t, hub.events, 2)
	for _, meta := range hub.metas {
		assert.Equal(t, realtime.ChannelChat, meta.Channel)
		assert.Equal(t, companyID, meta.CompanyID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_SendMessage_NonMemberGetsNotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	c := memberChat(companyID, uuid.New().String(), uuid.New().String())

	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*Chat, error) { return c, nil },
	}
	svc := NewService(db, repo, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.SendMessage(context.Background(), companyID, uuid.New().String(), c.ID.String(), SendMessageRequest{
		Content: "hei",
	})
	assert.ErrorIs(t, err, chaterrors.ErrChatNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_SendMessage_RequiresContentOrAttachment(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, nil)

	_, err := svc.SendMessage(context.Background(), uuid.New().String(), uuid.New().String(), uuid.New().String(), SendMessageRequest{
		Content: "   ",
	})
	assert.ErrorIs(t, err, chaterrors.ErrEmptyMessage)
}

func TestService_MarkRead_ZeroesCallerCounter(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	reader := uuid.New().String()
	other := uuid.New().String()
	c := memberChat(companyID, reader, other)
	c.UnreadCounts, _ = json.Marshal(map[string]int{reader: 3, other: 1})

	markedFor := ""
	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*Chat, error) { return c, nil },
		updateChatFn:         func(ctx context.Context, updated *Chat) error { c = updated; return nil },
		markMessagesReadFn: func(ctx context.Context, cid, chatID, userID string) error {
			markedFor = userID
			return nil
		},
	}
	svc := NewService(db, repo, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.MarkRead(context.Background(), companyID, reader, c.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, 0, resp.UnreadCount)
	assert.Equal(t, reader, markedFor)

	var unread map[string]int
	assert.NoError(t, json.Unmarshal(c.UnreadCounts, &unread))
	assert.Equal(t, 0, unread[reader])
	assert.Equal(t, 1, unread[other])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_DeleteMessage_SenderOnly(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	sender := uuid.New().String()
	other := uuid.New().String()
	c := memberChat(companyID, sender, other)

	m := &Message{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		ChatID:    c.ID,
		SenderID:  uuid.MustParse(sender),
		Content:   "feilsendt",
		Type:      MessageTypeText,
	}
	repo := &fakeRepo{
		findMessageByIDFn:    func(ctx context.Context, cid, id string) (*Message, error) { return m, nil },
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*Chat, error) { return c, nil },
		deleteMessageFn:      func(ctx context.Context, cid, id string) error { return nil },
	}
	svc := NewService(db, repo, nil)

	err := svc.DeleteMessage(context.Background(), companyID, other, m.ID.String())
	assert.ErrorIs(t, err, chaterrors.ErrNotMessageSender)

	err = svc.DeleteMessage(context.Background(), companyID, sender, m.ID.String())
	assert.NoError(t, err)
}

func TestService_SendMessage_SnippetTruncatesOnRuneBoundary(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	sender := uuid.New().String()
	other := uuid.New().String()
	c := memberChat(companyID, sender, other)

	var savedChat *Chat
	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*Chat, error) { return c, nil },
		createMessageFn:      func(ctx context.Context, m *Message) error { return nil },
		updateChatFn:         func(ctx context.Context, updated *Chat) error { savedChat = updated; return nil },
	}
	svc := NewService(db, repo, &fakeHub{})

	mock.ExpectBegin()
	mock.ExpectCommit()

	content := strings.Repeat("å", 600)
	_, err := svc.SendMessage(context.Background(), companyID, sender, c.ID.String(), SendMessageRequest{
		Content: content,
	})
	assert.NoError(t, err)
	assert.True(t, utf8.ValidString(savedChat.LastMessageContent))
	assert.Equal(t, 500, utf8.RuneCountInString(savedChat.LastMessageContent))
	assert.NoError(t, mock.ExpectationsWereMet())
}
