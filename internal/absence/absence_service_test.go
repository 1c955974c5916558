package absence

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	absenceerrors "driftpro/internal/absence/errors"
	"driftpro/internal/events"
	"driftpro/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	createFn             func(ctx context.Context, a *Absence) error
	findAllByCompanyFn   func(ctx context.Context, companyID string, filter ListAbsencesFilter) ([]Absence, error)
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*Absence, error)
	belongsFn            func(ctx context.Context, companyID, employeeID string) (bool, error)
	updateFn             func(ctx context.Context, a *Absence) error
	deleteFn             func(ctx context.Context, companyID, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                 { return f }
func (f *fakeRepo) Create(ctx context.Context, a *Absence) error { return f.createFn(ctx, a) }
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string, filter ListAbsencesFilter) ([]Absence, error) {
	return f.findAllByCompanyFn(ctx, companyID, filter)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Absence, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}
func (f *fakeRepo) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	return f.belongsFn(ctx, companyID, employeeID)
}
func (f *fakeRepo) Update(ctx context.Context, a *Absence) error { return f.updateFn(ctx, a) }
func (f *fakeRepo) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

// A submitted sick-leave form becomes exactly one pending absence with
// the submitted fields verbatim, and one lifecycle event alongside it.
func TestService_Create_PendingWithSubmittedFields(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	var created []Absence
	repo := &fakeRepo{
		belongsFn: func(ctx context.Context, cid, eid string) (bool, error) { return true, nil },
		createFn:  func(ctx context.Context, a *Absence) error { created = append(created, *a); return nil },
	}
	outbox := &fakeOutbox{}

	svc := NewService(db, repo, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), companyID, CreateAbsenceRequest{
		EmployeeID: employeeID,
		Type:       TypeSickLeave,
		StartDate:  "2026-01-10",
		EndDate:    "2026-01-12",
		Reason:     "Influensa",
	})
	assert.NoError(t, err)

	assert.Len(t, created, 1)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, companyID, resp.CompanyID)
	assert.Equal(t, employeeID, resp.EmployeeID)
	assert.Equal(t, TypeSickLeave, resp.Type)
	assert.Equal(t, "2026-01-10", resp.StartDate)
	assert.Equal(t, "2026-01-12", resp.EndDate)
	assert.Equal(t, "Influensa", resp.Reason)

	assert.Len(t, outbox.events, 1)
	assert.Equal(t, events.TopicAbsenceLifecycle, outbox.events[0].Topic)
	assert.Equal(t, events.EventTypeAbsenceRequested, outbox.events[0].EventType)

	var ev events.AbsenceRequestedEvent
	assert.NoError(t, json.Unmarshal(outbox.events[0].Payload, &ev))
	assert.Equal(t, companyID, ev.CompanyID)
	assert.Equal(t, employeeID, ev.EmployeeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_RejectsUnknownType(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeOutbox{})

	_, err := svc.Create(context.Background(), uuid.New().String(), CreateAbsenceRequest{
		EmployeeID: uuid.New().String(),
		Type:       "matvareallergi",
		StartDate:  "2026-01-10",
		EndDate:    "2026-01-12",
	})
	assert.ErrorIs(t, err, absenceerrors.ErrInvalidAbsenceType)
}

func TestService_Create_ForeignEmployeeDenied(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		belongsFn: func(ctx context.Context, cid, eid string) (bool, error) { return false, nil },
	}
	svc := NewService(db, repo, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), uuid.New().String(), CreateAbsenceRequest{
		EmployeeID: uuid.New().String(),
		Type:       TypeSickLeave,
		StartDate:  "2026-01-10",
		EndDate:    "2026-01-12",
	})
	assert.ErrorIs(t, err, absenceerrors.ErrEmployeeNotInCompany)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Reject_TwiceStaysRejected(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()

	a := &Absence{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		EmployeeID: uuid.New(),
		Type:       TypeSickLeave,
		Status:     StatusPending,
	}

	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*Absence, error) { return a, nil },
		updateFn:             func(ctx context.Context, updated *Absence) error { a = updated; return nil },
	}
	svc := NewService(db, repo, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Reject(context.Background(), companyID, uuid.New().String(), a.ID.String(), "dokumentasjon mangler")
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)

	mock.ExpectBegin()
	mock.ExpectRollback()
	resp, err = svc.Reject(context.Background(), companyID, uuid.New().String(), a.ID.String(), "dokumentasjon mangler")
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
