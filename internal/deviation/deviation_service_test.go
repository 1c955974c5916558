package deviation

import (
	"context"
	"database/sql"
	"testing"

	deviationerrors "driftpro/internal/deviation/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	createFn             func(ctx context.Context, d *Deviation) error
	findAllByCompanyFn   func(ctx context.Context, companyID string, filter ListDeviationsFilter) ([]Deviation, error)
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*Deviation, error)
	updateFn             func(ctx context.Context, d *Deviation) error
	deleteFn             func(ctx context.Context, companyID, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                   { return f }
func (f *fakeRepo) Create(ctx context.Context, d *Deviation) error { return f.createFn(ctx, d) }
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string, filter ListDeviationsFilter) ([]Deviation, error) {
	return f.findAllByCompanyFn(ctx, companyID, filter)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Deviation, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}
func (f *fakeRepo) Update(ctx context.Context, d *Deviation) error { return f.updateFn(ctx, d) }
func (f *fakeRepo) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, companyID, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

func TestService_Create_AssignsSequentialNumber(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	actorID := uuid.New().String()

	var saved []*Deviation
	repo := &fakeRepo{
		createFn: func(ctx context.Context, d *Deviation) error {
			saved = append(saved, d)
			return nil
		},
	}
	svc := NewService(db, repo, &fakeCounter{})
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	first, err := svc.Create(ctx, companyID, actorID, CreateDeviationRequest{
		Title:    "Lekkasje i tak",
		Category: CategorySafety,
	})
	assert.NoError(t, err)

	second, err := svc.Create(ctx, companyID, actorID, CreateDeviationRequest{
		Title:    "Defekt truck",
		Category: CategoryEquipment,
		Priority: PriorityHigh,
	})
	assert.NoError(t, err)

	assert.Equal(t, "AVVIK-000001", first.UniqueID)
	assert.Equal(t, "AVVIK-000002", second.UniqueID)
	assert.Equal(t, StatusPending, first.Status)
	assert.Equal(t, PriorityMedium, saved[0].Priority)
	assert.Equal(t, PriorityHigh, saved[1].Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_RejectsUnknownCategory(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeCounter{})

	_, err := svc.Create(context.Background(), uuid.New().String(), uuid.New().String(), CreateDeviationRequest{
		Title:    "Noe rart",
		Category: "weather",
	})
	assert.ErrorIs(t, err, deviationerrors.ErrInvalidCategory)
}

func TestService_Resolve_RecordsResolution(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	d := &Deviation{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		UniqueID:  "AVVIK-000007",
		Status:    StatusInProgress,
	}
	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*Deviation, error) { return d, nil },
		updateFn:             func(ctx context.Context, updated *Deviation) error { d = updated; return nil },
	}
	svc := NewService(db, repo, &fakeCounter{})

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Resolve(context.Background(), companyID, d.ID.String(), "Taket er tettet")
	assert.NoError(t, err)
	assert.Equal(t, StatusResolved, resp.Status)
	assert.Equal(t, "Taket er tettet", d.Resolution)
	assert.NotNil(t, d.ResolvedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Transition_FromTerminalStateFails(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	d := &Deviation{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		Status:    StatusResolved,
	}
	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*Deviation, error) { return d, nil },
	}
	svc := NewService(db, repo, &fakeCounter{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.StartProgress(context.Background(), companyID, d.ID.String())
	assert.ErrorIs(t, err, deviationerrors.ErrInvalidStatusTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Reject_RepeatIsNoop(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	d := &Deviation{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		Status:    StatusRejected,
	}
	updates := 0
	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*Deviation, error) { return d, nil },
		updateFn:             func(ctx context.Context, updated *Deviation) error { updates++; return nil },
	}
	svc := NewService(db, repo, &fakeCounter{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	resp, err := svc.Reject(context.Background(), companyID, d.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
	assert.Equal(t, 0, updates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_InvalidCompanyID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeCounter{})

	_, err := svc.Create(context.Background(), "not-a-uuid", uuid.New().String(), CreateDeviationRequest{
		Title:    "Knust vindu",
		Category: "safety",
	})
	assert.ErrorIs(t, err, deviationerrors.ErrInvalidCompanyID)
}
