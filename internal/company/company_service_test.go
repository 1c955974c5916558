package company

import (
	"context"
	"database/sql"
	"testing"

	"driftpro/internal/brreg"
	companyerrors "driftpro/internal/company/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	findByIDFn func(ctx context.Context, id string) (*Company, error)
	updateFn   func(ctx context.Context, c *Company) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Company, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) Update(ctx context.Context, c *Company) error { return f.updateFn(ctx, c) }

type fakeRegistry struct {
	getFn    func(ctx context.Context, orgNumber string) (*brreg.CompanyInfo, error)
	searchFn func(ctx context.Context, term string) ([]brreg.CompanyInfo, error)
}

func (f *fakeRegistry) GetCompanyInfo(ctx context.Context, orgNumber string) (*brreg.CompanyInfo, error) {
	return f.getFn(ctx, orgNumber)
}
func (f *fakeRegistry) SearchCompanies(ctx context.Context, term string) ([]brreg.CompanyInfo, error) {
	return f.searchFn(ctx, term)
}

func TestService_Get_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*Company, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, repo, &fakeRegistry{})

	_, err := svc.Get(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, companyerrors.ErrCompanyNotFound)
}

func TestService_Update_PartialMergeKeepsOmittedFields(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	existing := Company{
		ID:      uuid.New(),
		Name:    "Drift Entreprenør AS",
		Email:   "post@drift.no",
		Phone:   "+47 22 33 44 55",
		Address: "Storgata 1",
		Active:  true,
	}

	var saved Company
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*Company, error) {
			c := existing
			return &c, nil
		},
		updateFn: func(ctx context.Context, c *Company) error { saved = *c; return nil },
	}
	svc := NewService(db, repo, &fakeRegistry{})

	newPhone := "+47 99 88 77 66"
	resp, err := svc.Update(context.Background(), existing.ID.String(), UpdateCompanyRequest{
		Phone: &newPhone,
	})
	assert.NoError(t, err)
	assert.Equal(t, newPhone, saved.Phone)
	assert.Equal(t, existing.Name, saved.Name)
	assert.Equal(t, existing.Email, saved.Email)
	assert.Equal(t, existing.Address, saved.Address)
	assert.Equal(t, newPhone, resp.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Enrich_MergesRegistryRecord(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	existing := Company{
		ID:        uuid.New(),
		Name:      "Drift Entreprenør AS",
		OrgNumber: "923609016",
		Email:     "post@drift.no",
	}

	var saved Company
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*Company, error) {
			c := existing
			return &c, nil
		},
		updateFn: func(ctx context.Context, c *Company) error { saved = *c; return nil },
	}
	registry := &fakeRegistry{
		getFn: func(ctx context.Context, orgNumber string) (*brreg.CompanyInfo, error) {
			assert.Equal(t, "923609016", orgNumber)
			return &brreg.CompanyInfo{
				OrgNumber:     "923609016",
				Name:          "DRIFT ENTREPRENØR AS",
				OrgForm:       "AS",
				Address:       "Forusbeen 50",
				PostalCode:    "4035",
				City:          "STAVANGER",
				IndustryCode:  "43.110",
				IndustryText:  "Riving av bygninger",
				EmployeeCount: 42,
			}, nil
		},
	}
	svc := NewService(db, repo, registry)

	resp, err := svc.Enrich(context.Background(), existing.ID.String())
	assert.NoError(t, err)
	// tenant-maintained name survives, registration data is taken over
	assert.Equal(t, "Drift Entreprenør AS", saved.Name)
	assert.Equal(t, "Forusbeen 50", saved.Address)
	assert.Equal(t, "4035", saved.PostalCode)
	assert.Equal(t, "STAVANGER", saved.City)
	assert.Equal(t, "AS", saved.OrgForm)
	assert.Equal(t, 42, saved.EmployeeCount)
	assert.NotNil(t, saved.EnrichedAt)
	assert.NotEmpty(t, resp.EnrichedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Enrich_MissingOrgNumber(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*Company, error) {
			return &Company{ID: uuid.New(), Name: "Uregistrert AS"}, nil
		},
	}
	registry := &fakeRegistry{
		getFn: func(ctx context.Context, orgNumber string) (*brreg.CompanyInfo, error) {
			t.Fatal("registry must not be called without an org number")
			return nil, nil
		},
	}
	svc := NewService(db, repo, registry)

	_, err := svc.Enrich(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, companyerrors.ErrMissingOrgNumber)
}
