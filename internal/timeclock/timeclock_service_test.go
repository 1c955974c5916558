package timeclock

import (
	"context"
	"database/sql"
	"testing"
	"time"

	timeclockerrors "driftpro/internal/timeclock/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn             func(ctx context.Context, e *Entry) error
	findOpenByEmployeeFn func(ctx context.Context, companyID, employeeID string) (*Entry, error)
	findAllByCompanyFn   func(ctx context.Context, companyID string, filter ListEntriesFilter) ([]Entry, error)
	updateFn             func(ctx context.Context, e *Entry) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository               { return f }
func (f *fakeRepo) Create(ctx context.Context, e *Entry) error { return f.createFn(ctx, e) }
func (f *fakeRepo) FindOpenByEmployee(ctx context.Context, companyID, employeeID string) (*Entry, error) {
	return f.findOpenByEmployeeFn(ctx, companyID, employeeID)
}
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string, filter ListEntriesFilter) ([]Entry, error) {
	return f.findAllByCompanyFn(ctx, companyID, filter)
}
func (f *fakeRepo) Update(ctx context.Context, e *Entry) error { return f.updateFn(ctx, e) }

func TestService_ClockIn_OpensEntry(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	repo := &fakeRepo{
		findOpenByEmployeeFn: func(ctx context.Context, cid, eid string) (*Entry, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, e *Entry) error { return nil },
	}
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.ClockIn(context.Background(), companyID, employeeID, ClockInRequest{Notes: "Dagvakt"})
	assert.NoError(t, err)
	assert.Equal(t, employeeID, resp.EmployeeID)
	assert.True(t, resp.Open)
	assert.Nil(t, resp.ClockOut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockIn_TwiceFails(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	open := &Entry{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		EmployeeID: uuid.MustParse(employeeID),
		ClockIn:    time.Now().UTC(),
	}
	repo := &fakeRepo{
		findOpenByEmployeeFn: func(ctx context.Context, cid, eid string) (*Entry, error) {
			return open, nil
		},
	}
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.ClockIn(context.Background(), companyID, employeeID, ClockInRequest{})
	assert.ErrorIs(t, err, timeclockerrors.ErrAlreadyClockedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOut_ComputesHours(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	open := &Entry{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		EmployeeID: uuid.MustParse(employeeID),
		ClockIn:    time.Now().UTC().Add(-7*time.Hour - 30*time.Minute),
	}
	repo := &fakeRepo{
		findOpenByEmployeeFn: func(ctx context.Context, cid, eid string) (*Entry, error) {
			return open, nil
		},
		updateFn: func(ctx context.Context, e *Entry) error { return nil },
	}
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.ClockOut(context.Background(), companyID, employeeID, ClockOutRequest{})
	assert.NoError(t, err)
	assert.NotNil(t, resp.ClockOut)
	assert.False(t, resp.Open)
	assert.InDelta(t, 7.5, resp.TotalHours, 0.02)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOut_WithoutOpenEntry(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findOpenByEmployeeFn: func(ctx context.Context, cid, eid string) (*Entry, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.ClockOut(context.Background(), uuid.New().String(), uuid.New().String(), ClockOutRequest{})
	assert.ErrorIs(t, err, timeclockerrors.ErrNotClockedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Status_ReportsOpenEntry(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	repo := &fakeRepo{
		findOpenByEmployeeFn: func(ctx context.Context, cid, eid string) (*Entry, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, repo)

	status, err := svc.Status(context.Background(), companyID, employeeID)
	assert.NoError(t, err)
	assert.False(t, status.ClockedIn)
	assert.Nil(t, status.Entry)
}
