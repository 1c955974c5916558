package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	usererrors "driftpro/internal/user/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListUsersFilter) ([]UserResponse, error)
	GetByID(ctx context.Context, companyID, id string) (UserResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateUserRequest) (UserResponse, error) {
	s.logger.Debug("create user requested",
		zap.String("company_id", companyID),
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidCompanyID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create user begin tx failed", zap.Error(err))
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u := &User{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		DisplayName: req.DisplayName,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       req.Phone,
		Password:    string(hashed),
		Role:        req.Role,
		Status:      StatusPending,
	}
	if req.DepartmentID != "" {
		deptUUID, err := uuid.Parse(req.DepartmentID)
		if err != nil {
			return UserResponse{}, usererrors.ErrDepartmentNotInCompany
		}
		u.DepartmentID = &deptUUID
	}

	if err := qtx.Create(ctx, u); err != nil {
		if isUniqueEmailViolation(err) {
			return UserResponse{}, usererrors.ErrEmailTaken
		}
		s.logger.Error("create user persist failed", zap.Error(err))
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create user commit failed", zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("create user success",
		zap.String("user_id", u.ID.String()),
		zap.String("company_id", companyID),
	)
	return mapToResponse(*u), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListUsersFilter) ([]UserResponse, error) {
	users, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (UserResponse, error) {
	u, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateUserRequest) (UserResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	// Partial merge: only fields present in the request change.
	if req.DisplayName != nil {
		u.DisplayName = *req.DisplayName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.PhotoURL != nil {
		u.PhotoURL = *req.PhotoURL
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.Status != nil {
		u.Status = *req.Status
	}
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			u.DepartmentID = nil
		} else {
			deptUUID, err := uuid.Parse(*req.DepartmentID)
			if err != nil {
				return UserResponse{}, usererrors.ErrDepartmentNotInCompany
			}
			u.DepartmentID = &deptUUID
		}
	}
	u.UpdatedAt = time.Now().UTC()

	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("update user persist failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}

	s.logger.Info("update user success", zap.String("user_id", id))
	return mapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return err
	}
	return tx.Commit()
}

func isUniqueEmailViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:          u.ID.String(),
		CompanyID:   u.CompanyID.String(),
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Phone:       u.Phone,
		PhotoURL:    u.PhotoURL,
		Role:        u.Role,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.DepartmentID != nil {
		v := u.DepartmentID.String()
		resp.DepartmentID = &v
	}
	return resp
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp
}
