package vacation

import (
	"context"
	"database/sql"
	"testing"

	"driftpro/internal/messaging/kafka"
	vacationerrors "driftpro/internal/vacation/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn             func() Repository
	createFn             func(ctx context.Context, v *Vacation) error
	findAllByCompanyFn   func(ctx context.Context, companyID string, filter ListVacationsFilter) ([]Vacation, error)
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*Vacation, error)
	belongsFn            func(ctx context.Context, companyID, employeeID string) (bool, error)
	updateFn             func(ctx context.Context, v *Vacation) error
	findBalanceFn        func(ctx context.Context, companyID, employeeID string, year int) (*Balance, error)
	listBalancesFn       func(ctx context.Context, companyID string, year int) ([]Balance, error)
	saveBalanceFn        func(ctx context.Context, b *Balance) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository {
	if f.withTxFn != nil {
		return f.withTxFn()
	}
	return f
}
func (f *fakeRepo) Create(ctx context.Context, v *Vacation) error {
	return f.createFn(ctx, v)
}
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string, filter ListVacationsFilter) ([]Vacation, error) {
	return f.findAllByCompanyFn(ctx, companyID, filter)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Vacation, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}
func (f *fakeRepo) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	return f.belongsFn(ctx, companyID, employeeID)
}
func (f *fakeRepo) Update(ctx context.Context, v *Vacation) error { return f.updateFn(ctx, v) }
func (f *fakeRepo) FindBalance(ctx context.Context, companyID, employeeID string, year int) (*Balance, error) {
	return f.findBalanceFn(ctx, companyID, employeeID, year)
}
func (f *fakeRepo) ListBalancesByYear(ctx context.Context, companyID string, year int) ([]Balance, error) {
	return f.listBalancesFn(ctx, companyID, year)
}
func (f *fakeRepo) SaveBalance(ctx context.Context, b *Balance) error { return f.saveBalanceFn(ctx, b) }

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

func TestService_Create_WritesOutboxEvent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	ctx := context.Background()

	var saved Vacation
	repo := &fakeRepo{
		belongsFn: func(ctx context.Context, cid, eid string) (bool, error) { return true, nil },
		createFn:  func(ctx context.Context, v *Vacation) error { saved = *v; return nil },
	}
	outbox := &fakeOutbox{}

	svc := NewService(db, repo, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(ctx, companyID, CreateVacationRequest{
		EmployeeID: employeeID,
		StartDate:  "2026-07-06",
		EndDate:    "2026-07-10",
		Reason:     "Sommerferie",
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, 5, resp.DaysRequested)
	assert.Equal(t, 2026, resp.Year)

	assert.Len(t, outbox.events, 1)
	assert.Equal(t, "vacation", outbox.events[0].AggregateType)
	assert.Equal(t, saved.ID.String(), outbox.events[0].AggregateID)
	assert.Equal(t, companyID, outbox.events[0].CompanyID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_RejectsCrossYearRange(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeOutbox{})

	_, err := svc.Create(context.Background(), uuid.New().String(), CreateVacationRequest{
		EmployeeID: uuid.New().String(),
		StartDate:  "2026-12-28",
		EndDate:    "2027-01-03",
	})
	assert.ErrorIs(t, err, vacationerrors.ErrSpansMultipleYears)
}

func TestService_Approve_DeductsBalanceOnce(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	ctx := context.Background()

	v := &Vacation{
		ID:            uuid.New(),
		CompanyID:     uuid.MustParse(companyID),
		EmployeeID:    uuid.New(),
		DaysRequested: 5,
		Year:          2026,
		Status:        StatusPending,
	}
	balance := &Balance{
		ID:         uuid.New(),
		EmployeeID: v.EmployeeID,
		Year:       2026,
		TotalDays:  25,
	}

	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*Vacation, error) { return v, nil },
		findBalanceFn: func(ctx context.Context, cid, eid string, year int) (*Balance, error) {
			return balance, nil
		},
		saveBalanceFn: func(ctx context.Context, b *Balance) error { balance = b; return nil },
		updateFn:      func(ctx context.Context, updated *Vacation) error { v = updated; return nil },
	}

	svc := NewService(db, repo, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Approve(ctx, companyID, uuid.New().String(), v.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, resp.Status)
	assert.Equal(t, 5, balance.UsedDays)

	// Approving again is a no-op success and never deducts twice.
	mock.ExpectBegin()
	mock.ExpectRollback()
	resp, err = svc.Approve(ctx, companyID, uuid.New().String(), v.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, resp.Status)
	assert.Equal(t, 5, balance.UsedDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_InsufficientBalance(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()

	v := &Vacation{
		ID:            uuid.New(),
		CompanyID:     uuid.MustParse(companyID),
		EmployeeID:    uuid.New(),
		DaysRequested: 10,
		Year:          2026,
		Status:        StatusPending,
	}

	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*Vacation, error) { return v, nil },
		findBalanceFn: func(ctx context.Context, cid, eid string, year int) (*Balance, error) {
			return &Balance{EmployeeID: v.EmployeeID, Year: 2026, TotalDays: 25, UsedDays: 20}, nil
		},
	}

	svc := NewService(db, repo, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Approve(context.Background(), companyID, uuid.New().String(), v.ID.String())
	assert.ErrorIs(t, err, vacationerrors.ErrInsufficientBalance)
	assert.Equal(t, StatusPending, v.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Reject_IsIdempotent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()

	v := &Vacation{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		EmployeeID: uuid.New(),
		Status:     StatusPending,
	}

	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*Vacation, error) { return v, nil },
		updateFn:             func(ctx context.Context, updated *Vacation) error { v = updated; return nil },
	}

	svc := NewService(db, repo, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Reject(context.Background(), companyID, uuid.New().String(), v.ID.String(), "overlapper med bemanning")
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)

	mock.ExpectBegin()
	mock.ExpectRollback()
	resp, err = svc.Reject(context.Background(), companyID, uuid.New().String(), v.ID.String(), "overlapper med bemanning")
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetByID_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*Vacation, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := NewService(db, repo, &fakeOutbox{})
	_, err := svc.GetByID(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, vacationerrors.ErrVacationNotFound)
}

func TestService_Create_InvalidCompanyID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeOutbox{})
	_, err := svc.Create(context.Background(), "not-a-uuid", CreateVacationRequest{
		EmployeeID: uuid.New().String(),
		StartDate:  "2026-07-01",
		EndDate:    "2026-07-10",
	})
	assert.ErrorIs(t, err, vacationerrors.ErrInvalidCompanyID)
}

func TestService_CarryOver_ReadsBalancesInsideTx(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	companyID := uuid.New()
	employeeID := uuid.New()

	var saved Balance
	txRepo := &fakeRepo{
		listBalancesFn: func(ctx context.Context, cid string, year int) ([]Balance, error) {
			return []Balance{{
				ID:         uuid.New(),
				CompanyID:  companyID,
				EmployeeID: employeeID,
				Year:       year,
				TotalDays:  25,
				UsedDays:   20,
			}}, nil
		},
		findBalanceFn: func(ctx context.Context, cid, eid string, year int) (*Balance, error) {
			return nil, gorm.ErrRecordNotFound
		},
		saveBalanceFn: func(ctx context.Context, b *Balance) error { saved = *b; return nil },
	}
	repo := &fakeRepo{
		withTxFn: func() Repository { return txRepo },
		listBalancesFn: func(ctx context.Context, cid string, year int) ([]Balance, error) {
			t.Fatal("balances must be read through the tx-bound repository")
			return nil, nil
		},
	}

	svc := NewService(db, repo, &fakeOutbox{})
	result, err := svc.CarryOver(context.Background(), companyID.String(), CarryOverRequest{FromYear: 2025})

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, 2026, saved.Year)
	assert.Equal(t, 5, saved.CarriedOverDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}
