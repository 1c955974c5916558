package user

import (
	"context"
	"database/sql"
	"testing"

	usererrors "driftpro/internal/user/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	createFn               func(ctx context.Context, u *User) error
	findAllByCompanyFn     func(ctx context.Context, companyID string, filter ListUsersFilter) ([]User, error)
	findByIDAndCompanyFn   func(ctx context.Context, companyID, id string) (*User, error)
	findByEmailFn          func(ctx context.Context, email string) (*User, error)
	findAdminsAndLeadersFn func(ctx context.Context, companyID string, departmentID *string) ([]User, error)
	updateFn               func(ctx context.Context, u *User) error
	deleteFn               func(ctx context.Context, companyID, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository              { return f }
func (f *fakeRepo) Create(ctx context.Context, u *User) error { return f.createFn(ctx, u) }
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string, filter ListUsersFilter) ([]User, error) {
	return f.findAllByCompanyFn(ctx, companyID, filter)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*User, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}
func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	return f.findByEmailFn(ctx, email)
}
func (f *fakeRepo) FindAdminsAndLeaders(ctx context.Context, companyID string, departmentID *string) ([]User, error) {
	return f.findAdminsAndLeadersFn(ctx, companyID, departmentID)
}
func (f *fakeRepo) Update(ctx context.Context, u *User) error { return f.updateFn(ctx, u) }
func (f *fakeRepo) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}

func TestService_Create_HashesPasswordAndNormalizesEmail(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	var saved User
	repo := &fakeRepo{
		createFn: func(ctx context.Context, u *User) error { saved = *u; return nil },
	}
	svc := NewService(db, repo)

	resp, err := svc.Create(context.Background(), uuid.New().String(), CreateUserRequest{
		DisplayName: "Kari Nordmann",
		Email:       "  Kari.Nordmann@Example.NO ",
		Password:    "hemmelig123",
		Role:        "employee",
	})
	assert.NoError(t, err)
	assert.Equal(t, "kari.nordmann@example.no", saved.Email)
	assert.Equal(t, StatusPending, saved.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("hemmelig123")))
	assert.Equal(t, "kari.nordmann@example.no", resp.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_DuplicateEmail(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := &fakeRepo{
		createFn: func(ctx context.Context, u *User) error {
			return &pgconn.PgError{Code: "23505"}
		},
	}
	svc := NewService(db, repo)

	_, err := svc.Create(context.Background(), uuid.New().String(), CreateUserRequest{
		DisplayName: "Kari Nordmann",
		Email:       "kari@example.no",
		Password:    "hemmelig123",
		Role:        "employee",
	})
	assert.ErrorIs(t, err, usererrors.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_InvalidCompanyID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{})
	_, err := svc.Create(context.Background(), "not-a-uuid", CreateUserRequest{
		DisplayName: "Kari Nordmann",
		Email:       "kari@example.no",
		Password:    "hemmelig123",
		Role:        "employee",
	})
	assert.ErrorIs(t, err, usererrors.ErrInvalidCompanyID)
}

func TestService_Update_PartialMergeKeepsOmittedFields(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	deptID := uuid.New()
	existing := User{
		ID:           uuid.New(),
		CompanyID:    uuid.New(),
		DepartmentID: &deptID,
		DisplayName:  "Ola Hansen",
		Email:        "ola@example.no",
		Phone:        "+47 911 22 333",
		PhotoURL:     "https://cdn.example.no/ola.jpg",
		Role:         "department_leader",
		Status:       StatusActive,
	}

	var saved User
	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*User, error) {
			u := existing
			return &u, nil
		},
		updateFn: func(ctx context.Context, u *User) error { saved = *u; return nil },
	}
	svc := NewService(db, repo)

	newName := "Ola Nordmann"
	resp, err := svc.Update(context.Background(), existing.CompanyID.String(), existing.ID.String(), UpdateUserRequest{
		DisplayName: &newName,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Ola Nordmann", saved.DisplayName)
	assert.Equal(t, existing.Phone, saved.Phone)
	assert.Equal(t, existing.PhotoURL, saved.PhotoURL)
	assert.Equal(t, existing.Role, saved.Role)
	assert.Equal(t, existing.Status, saved.Status)
	assert.Equal(t, &deptID, saved.DepartmentID)
	assert.Equal(t, "Ola Nordmann", resp.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_EmptyDepartmentClearsAssignment(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	deptID := uuid.New()
	existing := User{
		ID:           uuid.New(),
		CompanyID:    uuid.New(),
		DepartmentID: &deptID,
		DisplayName:  "Ola Hansen",
		Status:       StatusActive,
	}

	var saved User
	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*User, error) {
			u := existing
			return &u, nil
		},
		updateFn: func(ctx context.Context, u *User) error { saved = *u; return nil },
	}
	svc := NewService(db, repo)

	empty := ""
	_, err := svc.Update(context.Background(), existing.CompanyID.String(), existing.ID.String(), UpdateUserRequest{
		DepartmentID: &empty,
	})
	assert.NoError(t, err)
	assert.Nil(t, saved.DepartmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
