package absence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	absenceerrors "driftpro/internal/absence/errors"
	"driftpro/internal/events"
	"driftpro/internal/messaging/kafka"
	"driftpro/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=absence_service.go -destination=mock/absence_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateAbsenceRequest) (AbsenceResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListAbsencesFilter) ([]AbsenceResponse, error)
	GetByID(ctx context.Context, companyID, id string) (AbsenceResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (AbsenceResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, reason string) (AbsenceResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("absence.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("absence.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

// Create persists the absence and its requested event in one transaction;
// the worker publishes the event after commit, so a notification is never
// produced for an absence that failed to persist.
func (s *service) Create(ctx context.Context, companyID string, req CreateAbsenceRequest) (AbsenceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create absence requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("type", req.Type),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidEmployeeID
	}
	if !ValidType(req.Type) {
		return AbsenceResponse{}, absenceerrors.ErrInvalidAbsenceType
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return AbsenceResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return AbsenceResponse{}, err
	}
	if startDate.After(endDate) {
		return AbsenceResponse{}, absenceerrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create absence begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AbsenceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return AbsenceResponse{}, err
	}
	if !belongs {
		return AbsenceResponse{}, absenceerrors.ErrEmployeeNotInCompany
	}

	a := &Absence{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		Type:       req.Type,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     req.Reason,
		Status:     StatusPending,
	}

	if err := qtx.Create(ctx, a); err != nil {
		s.logger.Error("create absence persist failed", zap.Error(err))
		return AbsenceResponse{}, err
	}

	if s.outbox != nil {
		event := events.AbsenceRequestedEvent{
			AbsenceID:  a.ID.String(),
			CompanyID:  companyID,
			EmployeeID: req.EmployeeID,
			Type:       req.Type,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return AbsenceResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			CompanyID:     companyID,
			AggregateType: "absence",
			AggregateID:   a.ID.String(),
			EventType:     events.EventTypeAbsenceRequested,
			Topic:         events.TopicAbsenceLifecycle,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create absence outbox persist failed",
				zap.String("absence_id", a.ID.String()),
				zap.Error(err),
			)
			return AbsenceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create absence commit failed", zap.String("request_id", rid), zap.Error(err))
		return AbsenceResponse{}, err
	}

	s.logger.Info("create absence success",
		zap.String("request_id", rid),
		zap.String("absence_id", a.ID.String()),
		zap.String("company_id", companyID),
	)
	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListAbsencesFilter) ([]AbsenceResponse, error) {
	absences, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(absences), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (AbsenceResponse, error) {
	a, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AbsenceResponse{}, absenceerrors.ErrAbsenceNotFound
		}
		return AbsenceResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (AbsenceResponse, error) {
	return s.transitionStatus(ctx, companyID, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, reason string) (AbsenceResponse, error) {
	return s.transitionStatus(ctx, companyID, actorID, id, StatusRejected, &reason)
}

// Transitions only run from pending. A repeated transition to the state
// the absence is already in succeeds without writing, so double-clicked
// approve/reject buttons stay harmless.
func (s *service) transitionStatus(ctx context.Context, companyID, actorID, id, targetStatus string, rejectionReason *string) (AbsenceResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AbsenceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AbsenceResponse{}, absenceerrors.ErrAbsenceNotFound
		}
		return AbsenceResponse{}, err
	}

	if a.Status == targetStatus {
		return mapToResponse(*a), nil
	}
	if a.Status != StatusPending {
		s.logger.Warn("absence transition invalid",
			zap.String("absence_id", id),
			zap.String("from_status", a.Status),
			zap.String("to_status", targetStatus),
		)
		return AbsenceResponse{}, absenceerrors.ErrInvalidStatusTransition
	}

	a.Status = targetStatus
	switch targetStatus {
	case StatusApproved:
		now := time.Now().UTC()
		a.ApprovedBy = &actorUUID
		a.ApprovedAt = &now
		a.RejectionReason = nil
	case StatusRejected:
		if rejectionReason == nil || *rejectionReason == "" {
			return AbsenceResponse{}, absenceerrors.ErrRejectionReasonRequired
		}
		a.ApprovedBy = nil
		a.ApprovedAt = nil
		a.RejectionReason = rejectionReason
	}

	if err := qtx.Update(ctx, a); err != nil {
		return AbsenceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AbsenceResponse{}, err
	}

	s.logger.Info("absence transition success",
		zap.String("absence_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*a), nil
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

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, absenceerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(a Absence) AbsenceResponse {
	resp := AbsenceResponse{
		ID:         a.ID.String(),
		CompanyID:  a.CompanyID.String(),
		EmployeeID: a.EmployeeID.String(),
		Type:       a.Type,
		StartDate:  a.StartDate.Format("2006-01-02"),
		EndDate:    a.EndDate.Format("2006-01-02"),
		Reason:     a.Reason,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if a.ApprovedBy != nil {
		approver := a.ApprovedBy.String()
		resp.ApprovedBy = &approver
	}
	if a.ApprovedAt != nil {
		at := a.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &at
	}
	resp.RejectionReason = a.RejectionReason
	return resp
}

func mapToListResponse(absences []Absence) []AbsenceResponse {
	res := make([]AbsenceResponse, len(absences))
	for i, a := range absences {
		res[i] = mapToResponse(a)
	}
	return res
}
