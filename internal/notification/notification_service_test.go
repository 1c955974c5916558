package notification

import (
	"context"
	"database/sql"
	"testing"

	notificationerrors "driftpro/internal/notification/errors"
	"driftpro/internal/realtime"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	createFn          func(ctx context.Context, n *Notification) error
	findAllByUserFn   func(ctx context.Context, companyID, userID string, filter ListNotificationsFilter) ([]Notification, error)
	findByIDAndUserFn func(ctx context.Context, companyID, userID, id string) (*Notification, error)
	countUnreadFn     func(ctx context.Context, companyID, userID string) (int64, error)
	updateFn          func(ctx context.Context, n *Notification) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                      { return f }
func (f *fakeRepo) Create(ctx context.Context, n *Notification) error { return f.createFn(ctx, n) }
func (f *fakeRepo) FindAllByUser(ctx context.Context, companyID, userID string, filter ListNotificationsFilter) ([]Notification, error) {
	return f.findAllByUserFn(ctx, companyID, userID, filter)
}
func (f *fakeRepo) FindByIDAndUser(ctx context.Context, companyID, userID, id string) (*Notification, error) {
	return f.findByIDAndUserFn(ctx, companyID, userID, id)
}
func (f *fakeRepo) CountUnread(ctx context.Context, companyID, userID string) (int64, error) {
	return f.countUnreadFn(ctx, companyID, userID)
}
func (f *fakeRepo) Update(ctx context.Context, n *Notification) error { return f.updateFn(ctx, n) }

type fakeHub struct {
	events []realtime.Event
	metas  []realtime.Target
}

func (f *fakeHub) Broadcast(event realtime.Event, target realtime.Target) {
	f.events = append(f.events, event)
	f.metas = append(f.metas, target)
}

func TestService_Create_PushesToHub(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	userID := uuid.New().String()

	repo := &fakeRepo{
		createFn: func(ctx context.Context, n *Notification) error { return nil },
	}
	hub := &fakeHub{}
	svc := NewService(db, repo, hub)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), companyID, CreateNotificationRequest{
		UserID:  userID,
		Title:   "Nytt avvik",
		Message: "Et avvik er registrert på din avdeling",
	})

	assert.NoError(t, err)
	assert.Equal(t, TypeSystem, resp.Type)
	assert.Equal(t, PriorityMedium, resp.Priority)
	assert.Equal(t, StatusUnread, resp.Status)

	if assert.Len(t, hub.events, 1) {
		assert.Equal(t, "notification.created", hub.events[0].Type)
		assert.Equal(t, companyID, hub.metas[0].CompanyID)
		assert.Equal(t, userID, hub.metas[0].UserID)
		assert.Equal(t, realtime.ChannelNotifications, hub.metas[0].Channel)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CreateFromEvent_DuplicateIsNoop(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		createFn: func(ctx context.Context, n *Notification) error {
			return &pgconn.PgError{Code: "23505"}
		},
	}
	hub := &fakeHub{}
	svc := NewService(db, repo, hub)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := svc.CreateFromEvent(context.Background(), uuid.New().String(), CreateNotificationRequest{
		UserID: uuid.New().String(),
		Title:  "Ny fraværssøknad",
	}, "evt-123:"+uuid.New().String())

	assert.NoError(t, err)
	assert.Empty(t, hub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_MarkRead_ForwardOnly(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	userID := uuid.New().String()

	n := &Notification{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		UserID:    uuid.MustParse(userID),
		Status:    StatusArchived,
	}
	repo := &fakeRepo{
		findByIDAndUserFn: func(ctx context.Context, cid, uid, id string) (*Notification, error) { return n, nil },
	}
	svc := NewService(db, repo, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.MarkRead(context.Background(), companyID, userID, n.ID.String())
	assert.ErrorIs(t, err, notificationerrors.ErrBackwardsTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_MarkRead_RepeatIsNoop(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	userID := uuid.New().String()

	n := &Notification{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		UserID:    uuid.MustParse(userID),
		Status:    StatusRead,
	}
	updates := 0
	repo := &fakeRepo{
		findByIDAndUserFn: func(ctx context.Context, cid, uid, id string) (*Notification, error) { return n, nil },
		updateFn:          func(ctx context.Context, updated *Notification) error { updates++; return nil },
	}
	svc := NewService(db, repo, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()

	resp, err := svc.MarkRead(context.Background(), companyID, userID, n.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusRead, resp.Status)
	assert.Equal(t, 0, updates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Archive_StampsReadAt(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	userID := uuid.New().String()

	n := &Notification{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		UserID:    uuid.MustParse(userID),
		Status:    StatusUnread,
	}
	repo := &fakeRepo{
		findByIDAndUserFn: func(ctx context.Context, cid, uid, id string) (*Notification, error) { return n, nil },
		updateFn:          func(ctx context.Context, updated *Notification) error { return nil },
	}
	svc := NewService(db, repo, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Archive(context.Background(), companyID, userID, n.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusArchived, resp.Status)
	assert.NotNil(t, resp.ReadAt)
	assert.NotNil(t, resp.ArchivedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_BulkMarkRead_SettlesEveryID(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	userID := uuid.New().String()

	good := &Notification{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		UserID:    uuid.MustParse(userID),
		Status:    StatusUnread,
	}
	badID := uuid.New().String()

	repo := &fakeRepo{
		findByIDAndUserFn: func(ctx context.Context, cid, uid, id string) (*Notification, error) {
			if id == good.ID.String() {
				return good, nil
			}
			return nil, notificationerrors.ErrNotificationNotFound
		},
		updateFn: func(ctx context.Context, updated *Notification) error { return nil },
	}
	svc := NewService(db, repo, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	results := svc.BulkMarkRead(context.Background(), companyID, userID, []string{good.ID.String(), badID})

	assert.Len(t, results, 2)
	assert.True(t, results[0].Ok)
	assert.False(t, results[1].Ok)
	assert.Equal(t, badID, results[1].ID)
	assert.NotEmpty(t, results[1].Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}
