package department

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	departmenterrors "driftpro/internal/department/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	createFn             func(ctx context.Context, dept *Department) error
	findAllByCompanyFn   func(ctx context.Context, companyID string) ([]Department, error)
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*Department, error)
	countMembersFn       func(ctx context.Context, companyID, id string) (int64, error)
	updateFn             func(ctx context.Context, dept *Department) error
	deleteFn             func(ctx context.Context, companyID, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                       { return f }
func (f *fakeRepo) Create(ctx context.Context, dept *Department) error { return f.createFn(ctx, dept) }
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]Department, error) {
	return f.findAllByCompanyFn(ctx, companyID)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Department, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}
func (f *fakeRepo) CountMembers(ctx context.Context, companyID, id string) (int64, error) {
	return f.countMembersFn(ctx, companyID, id)
}
func (f *fakeRepo) Update(ctx context.Context, dept *Department) error { return f.updateFn(ctx, dept) }
func (f *fakeRepo) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}

func TestService_GetAll_CacheHitSkipsRepo(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	cached := []DepartmentResponse{
		{ID: uuid.New().String(), Name: "Drift"},
		{ID: uuid.New().String(), Name: "Vedlikehold"},
	}
	raw, _ := json.Marshal(cached)

	rdb, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet(departmentAllKey(companyID)).SetVal(string(raw))

	repo := &fakeRepo{
		findAllByCompanyFn: func(ctx context.Context, cid string) ([]Department, error) {
			t.Fatal("repo must not be queried on a cache hit")
			return nil, nil
		},
	}
	svc := NewService(db, repo, rdb)

	resp, err := svc.GetAll(context.Background(), companyID)
	assert.NoError(t, err)
	assert.Equal(t, cached, resp)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_GetAll_CacheMissFillsCache(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	depts := []Department{
		{ID: uuid.New(), CompanyID: uuid.MustParse(companyID), Name: "Drift"},
	}
	expected := mapToListResponse(depts)
	raw, _ := json.Marshal(expected)

	rdb, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet(departmentAllKey(companyID)).RedisNil()
	redisMock.ExpectSet(departmentAllKey(companyID), raw, 30*time.Minute).SetVal("OK")

	repo := &fakeRepo{
		findAllByCompanyFn: func(ctx context.Context, cid string) ([]Department, error) {
			return depts, nil
		},
	}
	svc := NewService(db, repo, rdb)

	resp, err := svc.GetAll(context.Background(), companyID)
	assert.NoError(t, err)
	assert.Equal(t, expected, resp)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_Create_InvalidatesListCache(t *testing.T) {
	db, sqlMock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()

	rdb, redisMock := redismock.NewClientMock()
	redisMock.ExpectDel(departmentAllKey(companyID)).SetVal(1)

	repo := &fakeRepo{
		createFn: func(ctx context.Context, dept *Department) error { return nil },
	}
	svc := NewService(db, repo, rdb)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	resp, err := svc.Create(context.Background(), companyID, CreateDepartmentRequest{Name: "Drift"})
	assert.NoError(t, err)
	assert.Equal(t, "Drift", resp.Name)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_Delete_RefusesNonEmptyDepartment(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		countMembersFn: func(ctx context.Context, cid, id string) (int64, error) { return 4, nil },
	}
	rdb, _ := redismock.NewClientMock()
	svc := NewService(db, repo, rdb)

	err := svc.Delete(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotEmpty)
}

func TestService_Create_InvalidCompanyID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	rdb, _ := redismock.NewClientMock()
	svc := NewService(db, &fakeRepo{}, rdb)

	_, err := svc.Create(context.Background(), "not-a-uuid", CreateDepartmentRequest{Name: "Drift"})
	assert.ErrorIs(t, err, departmenterrors.ErrInvalidCompanyID)
}
