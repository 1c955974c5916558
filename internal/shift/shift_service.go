package shift

import (
	"context"
	"database/sql"
	"errors"
	"time"

	shifterrors "driftpro/internal/shift/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=shift_service.go -destination=mock/shift_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateShiftRequest) (ShiftResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListShiftsFilter) ([]ShiftResponse, error)
	GetByID(ctx context.Context, companyID, id string) (ShiftResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateShiftRequest) (ShiftResponse, error)
	Start(ctx context.Context, companyID, id string) (ShiftResponse, error)
	Complete(ctx context.Context, companyID, id string) (ShiftResponse, error)
	Cancel(ctx context.Context, companyID, id string) (ShiftResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("shift.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("shift.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateShiftRequest) (ShiftResponse, error) {
	s.logger.Debug("create shift requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ShiftResponse{}, shifterrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ShiftResponse{}, shifterrors.ErrInvalidEmployeeID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ShiftResponse{}, shifterrors.ErrInvalidEmployeeID
	}

	start, err := parseTime(req.StartTime)
	if err != nil {
		return ShiftResponse{}, err
	}
	end, err := parseTime(req.EndTime)
	if err != nil {
		return ShiftResponse{}, err
	}
	if !end.After(start) {
		return ShiftResponse{}, shifterrors.ErrInvalidTimeRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create shift begin tx failed", zap.Error(err))
		return ShiftResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return ShiftResponse{}, err
	}
	if !belongs {
		return ShiftResponse{}, shifterrors.ErrEmployeeNotInCompany
	}

	sh := &Shift{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		Title:      req.Title,
		StartTime:  start,
		EndTime:    end,
		Status:     StatusScheduled,
		Location:   req.Location,
		Notes:      req.Notes,
		CreatedBy:  actorUUID,
	}

	if err := qtx.Create(ctx, sh); err != nil {
		s.logger.Error("create shift persist failed", zap.Error(err))
		return ShiftResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create shift commit failed", zap.Error(err))
		return ShiftResponse{}, err
	}

	s.logger.Info("create shift success",
		zap.String("shift_id", sh.ID.String()),
		zap.String("company_id", companyID),
	)
	return mapToResponse(*sh), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListShiftsFilter) ([]ShiftResponse, error) {
	shifts, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(shifts), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (ShiftResponse, error) {
	sh, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShiftResponse{}, shifterrors.ErrShiftNotFound
		}
		return ShiftResponse{}, err
	}
	return mapToResponse(*sh), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateShiftRequest) (ShiftResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ShiftResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sh, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShiftResponse{}, shifterrors.ErrShiftNotFound
		}
		return ShiftResponse{}, err
	}

	if sh.Status != StatusScheduled {
		return ShiftResponse{}, shifterrors.ErrShiftNotEditable
	}

	if req.Title != nil {
		sh.Title = *req.Title
	}
	if req.StartTime != nil {
		start, err := parseTime(*req.StartTime)
		if err != nil {
			return ShiftResponse{}, err
		}
		sh.StartTime = start
	}
	if req.EndTime != nil {
		end, err := parseTime(*req.EndTime)
		if err != nil {
			return ShiftResponse{}, err
		}
		sh.EndTime = end
	}
	if !sh.EndTime.After(sh.StartTime) {
		return ShiftResponse{}, shifterrors.ErrInvalidTimeRange
	}
	if req.Location != nil {
		sh.Location = *req.Location
	}
	if req.Notes != nil {
		sh.Notes = *req.Notes
	}
	sh.UpdatedAt = time.Now().UTC()

	if err := qtx.Update(ctx, sh); err != nil {
		return ShiftResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ShiftResponse{}, err
	}

	return mapToResponse(*sh), nil
}

func (s *service) Start(ctx context.Context, companyID, id string) (ShiftResponse, error) {
	return s.transitionStatus(ctx, companyID, id, StatusInProgress)
}

func (s *service) Complete(ctx context.Context, companyID, id string) (ShiftResponse, error) {
	return s.transitionStatus(ctx, companyID, id, StatusCompleted)
}

func (s *service) Cancel(ctx context.Context, companyID, id string) (ShiftResponse, error) {
	return s.transitionStatus(ctx, companyID, id, StatusCancelled)
}

// isAllowedStatusTransition encodes the shift lifecycle. Cancelling an
// already cancelled shift is allowed so repeated cancel clicks stay
// idempotent.
func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	if currentStatus == targetStatus {
		return currentStatus == StatusCancelled
	}

	switch currentStatus {
	case StatusScheduled:
		return targetStatus == StatusInProgress || targetStatus == StatusCancelled
	case StatusInProgress:
		return targetStatus == StatusCompleted || targetStatus == StatusCancelled
	default:
		return false
	}
}

func (s *service) transitionStatus(ctx context.Context, companyID, id, targetStatus string) (ShiftResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ShiftResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sh, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShiftResponse{}, shifterrors.ErrShiftNotFound
		}
		return ShiftResponse{}, err
	}

	if sh.Status == targetStatus && targetStatus == StatusCancelled {
		return mapToResponse(*sh), nil
	}

	if !isAllowedStatusTransition(sh.Status, targetStatus) {
		s.logger.Warn("shift transition invalid",
			zap.String("shift_id", id),
			zap.String("from_status", sh.Status),
			zap.String("to_status", targetStatus),
		)
		return ShiftResponse{}, shifterrors.ErrInvalidStatusTransition
	}

	sh.Status = targetStatus
	sh.UpdatedAt = time.Now().UTC()

	if err := qtx.Update(ctx, sh); err != nil {
		return ShiftResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ShiftResponse{}, err
	}

	s.logger.Info("shift transition success",
		zap.String("shift_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*sh), nil
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

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, shifterrors.ErrInvalidTimeFormat
	}
	return t.UTC(), nil
}

func mapToResponse(sh Shift) ShiftResponse {
	return ShiftResponse{
		ID:         sh.ID.String(),
		CompanyID:  sh.CompanyID.String(),
		EmployeeID: sh.EmployeeID.String(),
		Title:      sh.Title,
		StartTime:  sh.StartTime.UTC().Format(time.RFC3339),
		EndTime:    sh.EndTime.UTC().Format(time.RFC3339),
		Status:     sh.Status,
		Location:   sh.Location,
		Notes:      sh.Notes,
		CreatedBy:  sh.CreatedBy.String(),
		CreatedAt:  sh.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  sh.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(shifts []Shift) []ShiftResponse {
	res := make([]ShiftResponse, len(shifts))
	for i, sh := range shifts {
		res[i] = mapToResponse(sh)
	}
	return res
}
