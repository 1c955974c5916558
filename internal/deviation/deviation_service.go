package deviation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	deviationerrors "driftpro/internal/deviation/errors"
	"driftpro/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=deviation_service.go -destination=mock/deviation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateDeviationRequest) (DeviationResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListDeviationsFilter) ([]DeviationResponse, error)
	GetByID(ctx context.Context, companyID, id string) (DeviationResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateDeviationRequest) (DeviationResponse, error)
	StartProgress(ctx context.Context, companyID, id string) (DeviationResponse, error)
	Resolve(ctx context.Context, companyID, id, resolution string) (DeviationResponse, error)
	Reject(ctx context.Context, companyID, id string) (DeviationResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("deviation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("deviation.service")
	}
	return &service{db: db, repo: repo, counter: counterRepo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateDeviationRequest) (DeviationResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return DeviationResponse{}, deviationerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return DeviationResponse{}, deviationerrors.ErrInvalidAssignee
	}
	if !ValidCategory(req.Category) {
		return DeviationResponse{}, deviationerrors.ErrInvalidCategory
	}
	if req.Priority == "" {
		req.Priority = PriorityMedium
	}
	if !ValidPriority(req.Priority) {
		return DeviationResponse{}, deviationerrors.ErrInvalidPriority
	}

	nextVal, err := s.counter.GetNextValue(ctx, companyID, "deviation_number")
	if err != nil {
		s.logger.Error("create deviation generate number failed", zap.Error(err))
		return DeviationResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeviationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d := &Deviation{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		UniqueID:    fmt.Sprintf("AVVIK-%06d", nextVal),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Status:      StatusPending,
		ReportedBy:  actorUUID,
	}
	if req.AssignedTo != "" {
		assigneeUUID, err := uuid.Parse(req.AssignedTo)
		if err != nil {
			return DeviationResponse{}, deviationerrors.ErrInvalidAssignee
		}
		d.AssignedTo = &assigneeUUID
	}

	if err := qtx.Create(ctx, d); err != nil {
		s.logger.Error("create deviation persist failed", zap.Error(err))
		return DeviationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DeviationResponse{}, err
	}

	s.logger.Info("create deviation success",
		zap.String("deviation_id", d.ID.String()),
		zap.String("unique_id", d.UniqueID),
		zap.String("company_id", companyID),
	)
	return mapToResponse(*d), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListDeviationsFilter) ([]DeviationResponse, error) {
	deviations, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(deviations), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (DeviationResponse, error) {
	d, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeviationResponse{}, deviationerrors.ErrDeviationNotFound
		}
		return DeviationResponse{}, err
	}
	return mapToResponse(*d), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateDeviationRequest) (DeviationResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeviationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeviationResponse{}, deviationerrors.ErrDeviationNotFound
		}
		return DeviationResponse{}, err
	}

	if d.Status == StatusResolved || d.Status == StatusRejected {
		return DeviationResponse{}, deviationerrors.ErrDeviationClosed
	}

	if req.Title != nil {
		d.Title = *req.Title
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Category != nil {
		if !ValidCategory(*req.Category) {
			return DeviationResponse{}, deviationerrors.ErrInvalidCategory
		}
		d.Category = *req.Category
	}
	if req.Priority != nil {
		if !ValidPriority(*req.Priority) {
			return DeviationResponse{}, deviationerrors.ErrInvalidPriority
		}
		d.Priority = *req.Priority
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			d.AssignedTo = nil
		} else {
			assigneeUUID, err := uuid.Parse(*req.AssignedTo)
			if err != nil {
				return DeviationResponse{}, deviationerrors.ErrInvalidAssignee
			}
			d.AssignedTo = &assigneeUUID
		}
	}
	d.UpdatedAt = time.Now().UTC()

	if err := qtx.Update(ctx, d); err != nil {
		return DeviationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DeviationResponse{}, err
	}

	return mapToResponse(*d), nil
}

func (s *service) StartProgress(ctx context.Context, companyID, id string) (DeviationResponse, error) {
	return s.transitionStatus(ctx, companyID, id, StatusInProgress, "")
}

func (s *service) Resolve(ctx context.Context, companyID, id, resolution string) (DeviationResponse, error) {
	return s.transitionStatus(ctx, companyID, id, StatusResolved, resolution)
}

func (s *service) Reject(ctx context.Context, companyID, id string) (DeviationResponse, error) {
	return s.transitionStatus(ctx, companyID, id, StatusRejected, "")
}

func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case StatusPending:
		return targetStatus == StatusInProgress || targetStatus == StatusResolved || targetStatus == StatusRejected
	case StatusInProgress:
		return targetStatus == StatusResolved || targetStatus == StatusRejected
	default:
		return false
	}
}

func (s *service) transitionStatus(ctx context.Context, companyID, id, targetStatus, resolution string) (DeviationResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeviationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeviationResponse{}, deviationerrors.ErrDeviationNotFound
		}
		return DeviationResponse{}, err
	}

	if d.Status == targetStatus {
		return mapToResponse(*d), nil
	}
	if !isAllowedStatusTransition(d.Status, targetStatus) {
		return DeviationResponse{}, deviationerrors.ErrInvalidStatusTransition
	}

	d.Status = targetStatus
	if targetStatus == StatusResolved {
		now := time.Now().UTC()
		d.Resolution = resolution
		d.ResolvedAt = &now
	}
	d.UpdatedAt = time.Now().UTC()

	if err := qtx.Update(ctx, d); err != nil {
		return DeviationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DeviationResponse{}, err
	}

	s.logger.Info("deviation transition success",
		zap.String("deviation_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*d), nil
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

func mapToResponse(d Deviation) DeviationResponse {
	resp := DeviationResponse{
		ID:          d.ID.String(),
		CompanyID:   d.CompanyID.String(),
		UniqueID:    d.UniqueID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Priority:    d.Priority,
		Status:      d.Status,
		ReportedBy:  d.ReportedBy.String(),
		Resolution:  d.Resolution,
		CreatedAt:   d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   d.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if d.AssignedTo != nil {
		assignee := d.AssignedTo.String()
		resp.AssignedTo = &assignee
	}
	if d.ResolvedAt != nil {
		at := d.ResolvedAt.UTC().Format(time.RFC3339)
		resp.ResolvedAt = &at
	}
	return resp
}

func mapToListResponse(deviations []Deviation) []DeviationResponse {
	res := make([]DeviationResponse, len(deviations))
	for i, d := range deviations {
		res[i] = mapToResponse(d)
	}
	return res
}
