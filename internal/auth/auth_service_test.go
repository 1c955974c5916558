package auth

import (
	"context"
	"database/sql"
	"testing"

	autherrors "driftpro/internal/auth/errors"
	"driftpro/internal/domain"
	"driftpro/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	findByEmailFn        func(ctx context.Context, email string) (*user.User, error)
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*user.User, error)
}

func (f *fakeUserRepo) WithTx(tx *sql.Tx) user.Repository              { return f }
func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) FindAllByCompany(ctx context.Context, companyID string, filter user.ListUsersFilter) ([]user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*user.User, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return f.findByEmailFn(ctx, email)
}
func (f *fakeUserRepo) FindAdminsAndLeaders(ctx context.Context, companyID string, departmentID *string) ([]user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error         { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, companyID, id string) error { return nil }

type fakeRbac struct {
	loadedCompanies []string
}

func (f *fakeRbac) LoadCompanyPolicy(companyID string) error {
	f.loadedCompanies = append(f.loadedCompanies, companyID)
	return nil
}
func (f *fakeRbac) Enforce(req domain.EnforceRequest) (bool, error) { return true, nil }
func (f *fakeRbac) ListRoles(companyID string) ([]domain.RoleResponse, error) {
	return nil, nil
}
func (f *fakeRbac) ListPermissions() ([]domain.PermissionResponse, error) { return nil, nil }
func (f *fakeRbac) UpdateRolePermissions(companyID, roleName string, permIDs []string) error {
	return nil
}

func activeUser(t *testing.T, password string) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &user.User{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		DisplayName: "Kari Nordmann",
		Email:       "kari@example.no",
		Password:    string(hash),
		Role:        "admin",
		Status:      user.StatusActive,
	}
}

func TestService_Login_IssuesTokensAndLoadsPolicy(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	u := activeUser(t, "hemmelig123")
	repo := &fakeUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
	}
	rb := &fakeRbac{}
	svc := NewService(repo, rb)

	access, refresh, resp, err := svc.Login(context.Background(), "kari@example.no", "hemmelig123")
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, u.ID.String(), resp.ID)
	assert.Equal(t, []string{u.CompanyID.String()}, rb.loadedCompanies)

	token, err := jwt.Parse(access, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, u.ID.String(), claims["user_id"])
	assert.Equal(t, u.CompanyID.String(), claims["company_id"])
	assert.Equal(t, "admin", claims["role"])
}

func TestService_Login_WrongPassword(t *testing.T) {
	u := activeUser(t, "hemmelig123")
	repo := &fakeUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
	}
	svc := NewService(repo, &fakeRbac{})

	_, _, _, err := svc.Login(context.Background(), "kari@example.no", "feil-passord")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestService_Login_UnknownEmailLooksLikeBadCredentials(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(repo, &fakeRbac{})

	_, _, _, err := svc.Login(context.Background(), "ukjent@example.no", "uansett")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestService_Login_InactiveUser(t *testing.T) {
	u := activeUser(t, "hemmelig123")
	u.Status = user.StatusInactive
	repo := &fakeUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
	}
	rb := &fakeRbac{}
	svc := NewService(repo, rb)

	_, _, _, err := svc.Login(context.Background(), "kari@example.no", "hemmelig123")
	assert.ErrorIs(t, err, autherrors.ErrUserInactive)
	assert.Empty(t, rb.loadedCompanies)
}

func TestService_RefreshToken_RotatesTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	u := activeUser(t, "hemmelig123")
	repo := &fakeUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
		findByIDAndCompanyFn: func(ctx context.Context, companyID, id string) (*user.User, error) {
			assert.Equal(t, u.CompanyID.String(), companyID)
			assert.Equal(t, u.ID.String(), id)
			return u, nil
		},
	}
	svc := NewService(repo, &fakeRbac{})

	_, refresh, _, err := svc.Login(context.Background(), "kari@example.no", "hemmelig123")
	assert.NoError(t, err)

	newAccess, newRefresh, resp, err := svc.RefreshToken(context.Background(), refresh)
	assert.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)
	assert.Equal(t, u.Email, resp.Email)
}

func TestService_RefreshToken_RejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := NewService(&fakeUserRepo{}, &fakeRbac{})
	_, _, _, err := svc.RefreshToken(context.Background(), "ikke-en-jwt")
	assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
}

func TestService_RefreshToken_InactiveUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	u := activeUser(t, "hemmelig123")
	repo := &fakeUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
		findByIDAndCompanyFn: func(ctx context.Context, companyID, id string) (*user.User, error) {
			return u, nil
		},
	}
	svc := NewService(repo, &fakeRbac{})

	_, refresh, _, err := svc.Login(context.Background(), "kari@example.no", "hemmelig123")
	assert.NoError(t, err)

	u.Status = user.StatusInactive
	_, _, _, err = svc.RefreshToken(context.Background(), refresh)
	assert.ErrorIs(t, err, autherrors.ErrUserInactive)
}
