package vacation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"driftpro/internal/events"
	"driftpro/internal/messaging/kafka"
	"driftpro/internal/shared/contextutil"
	vacationerrors "driftpro/internal/vacation/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultAnnualDays = 25

//go:generate mockgen -source=vacation_service.go -destination=mock/vacation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateVacationRequest) (VacationResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListVacationsFilter) ([]VacationResponse, error)
	GetByID(ctx context.Context, companyID, id string) (VacationResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (VacationResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, reason string) (VacationResponse, error)
	Cancel(ctx context.Context, companyID, id string) (VacationResponse, error)

	GetBalance(ctx context.Context, companyID, employeeID string, year int) (BalanceResponse, error)
	CarryOver(ctx context.Context, companyID string, req CarryOverRequest) ([]BalanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("vacation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("vacation.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateVacationRequest) (VacationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create vacation requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return VacationResponse{}, vacationerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return VacationResponse{}, vacationerrors.ErrInvalidEmployeeID
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return VacationResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return VacationResponse{}, err
	}
	if startDate.After(endDate) {
		return VacationResponse{}, vacationerrors.ErrInvalidDateRange
	}
	if startDate.Year() != endDate.Year() {
		return VacationResponse{}, vacationerrors.ErrSpansMultipleYears
	}

	days := int(endDate.Sub(startDate).Hours()/24) + 1

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create vacation begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return VacationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return VacationResponse{}, err
	}
	if !belongs {
		return VacationResponse{}, vacationerrors.ErrEmployeeNotInCompany
	}

	v := &Vacation{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		EmployeeID:    employeeUUID,
		StartDate:     startDate,
		EndDate:       endDate,
		DaysRequested: days,
		Year:          startDate.Year(),
		Status:        StatusPending,
		Reason:        req.Reason,
	}

	if err := qtx.Create(ctx, v); err != nil {
		s.logger.Error("create vacation persist failed", zap.Error(err))
		return VacationResponse{}, err
	}

	if s.outbox != nil {
		event := events.VacationRequestedEvent{
			VacationID:    v.ID.String(),
			CompanyID:     companyID,
			EmployeeID:    req.EmployeeID,
			StartDate:     req.StartDate,
			EndDate:       req.EndDate,
			DaysRequested: days,
			OccurredAt:    time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return VacationResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			CompanyID:     companyID,
			AggregateType: "vacation",
			AggregateID:   v.ID.String(),
			EventType:     events.EventTypeVacationRequested,
			Topic:         events.TopicVacationLifecycle,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create vacation outbox persist failed",
				zap.String("vacation_id", v.ID.String()),
				zap.Error(err),
			)
			return VacationResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create vacation commit failed", zap.String("request_id", rid), zap.Error(err))
		return VacationResponse{}, err
	}

	s.logger.Info("create vacation success",
		zap.String("request_id", rid),
		zap.String("vacation_id", v.ID.String()),
		zap.String("company_id", companyID),
	)
	return mapToResponse(*v), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListVacationsFilter) ([]VacationResponse, error) {
	vacations, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(vacations), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (VacationResponse, error) {
	v, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VacationResponse{}, vacationerrors.ErrVacationNotFound
		}
		return VacationResponse{}, err
	}
	return mapToResponse(*v), nil
}

// Approve moves a pending request to approved and deducts the days from
// the year's balance in the same transaction. A request that is already
// approved returns unchanged, so the balance is never deducted twice.
func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (VacationResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return VacationResponse{}, vacationerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return VacationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	v, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VacationResponse{}, vacationerrors.ErrVacationNotFound
		}
		return VacationResponse{}, err
	}

	if v.Status == StatusApproved {
		return mapToResponse(*v), nil
	}
	if v.Status != StatusPending {
		return VacationResponse{}, vacationerrors.ErrInvalidStatusTransition
	}

	balance, err := qtx.FindBalance(ctx, companyID, v.EmployeeID.String(), v.Year)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return VacationResponse{}, err
		}
		balance = &Balance{
			ID:         uuid.New(),
			CompanyID:  v.CompanyID,
			EmployeeID: v.EmployeeID,
			Year:       v.Year,
			TotalDays:  defaultAnnualDays,
		}
	}

	if balance.Remaining() < v.DaysRequested {
		return VacationResponse{}, vacationerrors.ErrInsufficientBalance
	}
	balance.UsedDays += v.DaysRequested
	if err := qtx.SaveBalance(ctx, balance); err != nil {
		return VacationResponse{}, err
	}

	now := time.Now().UTC()
	v.Status = StatusApproved
	v.ApprovedBy = &actorUUID
	v.ApprovedAt = &now
	v.RejectionReason = nil

	if err := qtx.Update(ctx, v); err != nil {
		return VacationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return VacationResponse{}, err
	}

	s.logger.Info("approve vacation success",
		zap.String("vacation_id", id),
		zap.Int("days", v.DaysRequested),
		zap.Int("remaining", balance.Remaining()),
	)
	return mapToResponse(*v), nil
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, reason string) (VacationResponse, error) {
	if reason == "" {
		return VacationResponse{}, vacationerrors.ErrRejectionReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return VacationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	v, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VacationResponse{}, vacationerrors.ErrVacationNotFound
		}
		return VacationResponse{}, err
	}

	if v.Status == StatusRejected {
		return mapToResponse(*v), nil
	}
	if v.Status != StatusPending {
		return VacationResponse{}, vacationerrors.ErrInvalidStatusTransition
	}

	v.Status = StatusRejected
	v.ApprovedBy = nil
	v.ApprovedAt = nil
	v.RejectionReason = &reason

	if err := qtx.Update(ctx, v); err != nil {
		return VacationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return VacationResponse{}, err
	}

	return mapToResponse(*v), nil
}

func (s *service) Cancel(ctx context.Context, companyID, id string) (VacationResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return VacationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	v, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VacationResponse{}, vacationerrors.ErrVacationNotFound
		}
		return VacationResponse{}, err
	}

	if v.Status == StatusCancelled {
		return mapToResponse(*v), nil
	}
	if v.Status != StatusPending {
		return VacationResponse{}, vacationerrors.ErrInvalidStatusTransition
	}

	v.Status = StatusCancelled

	if err := qtx.Update(ctx, v); err != nil {
		return VacationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return VacationResponse{}, err
	}

	return mapToResponse(*v), nil
}

func (s *service) GetBalance(ctx context.Context, companyID, employeeID string, year int) (BalanceResponse, error) {
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	b, err := s.repo.FindBalance(ctx, companyID, employeeID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No row yet means the untouched default allowance.
			employeeUUID, perr := uuid.Parse(employeeID)
			if perr != nil {
				return BalanceResponse{}, vacationerrors.ErrInvalidEmployeeID
			}
			return mapBalance(Balance{
				EmployeeID: employeeUUID,
				Year:       year,
				TotalDays:  defaultAnnualDays,
			}), nil
		}
		return BalanceResponse{}, err
	}
	return mapBalance(*b), nil
}

// CarryOver rolls each employee's unused days from one year into the
// next, capped at MaxDays when it is set. Running it twice for the same
// year pair overwrites the carried amount rather than adding to it.
func (s *service) CarryOver(ctx context.Context, companyID string, req CarryOverRequest) ([]BalanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Read the source balances inside the tx so usedDays cannot move
	// between the read and the carried-over writes.
	balances, err := qtx.ListBalancesByYear(ctx, companyID, req.FromYear)
	if err != nil {
		return nil, err
	}
	toYear := req.FromYear + 1
	result := make([]BalanceResponse, 0, len(balances))

	for _, b := range balances {
		carried := b.Remaining()
		if carried < 0 {
			carried = 0
		}
		if req.MaxDays > 0 && carried > req.MaxDays {
			carried = req.MaxDays
		}

		next, err := qtx.FindBalance(ctx, companyID, b.EmployeeID.String(), toYear)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			next = &Balance{
				ID:         uuid.New(),
				CompanyID:  b.CompanyID,
				EmployeeID: b.EmployeeID,
				Year:       toYear,
				TotalDays:  defaultAnnualDays,
			}
		}
		next.CarriedOverDays = carried

		if err := qtx.SaveBalance(ctx, next); err != nil {
			return nil, err
		}
		result = append(result, mapBalance(*next))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("vacation carry-over complete",
		zap.String("company_id", companyID),
		zap.Int("from_year", req.FromYear),
		zap.Int("balances", len(result)),
	)
	return result, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, vacationerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(v Vacation) VacationResponse {
	resp := VacationResponse{
		ID:            v.ID.String(),
		CompanyID:     v.CompanyID.String(),
		EmployeeID:    v.EmployeeID.String(),
		StartDate:     v.StartDate.Format("2006-01-02"),
		EndDate:       v.EndDate.Format("2006-01-02"),
		DaysRequested: v.DaysRequested,
		Year:          v.Year,
		Status:        v.Status,
		Reason:        v.Reason,
		CreatedAt:     v.CreatedAt.UTC().Format(time.RFC3339),
	}
	if v.ApprovedBy != nil {
		approver := v.ApprovedBy.String()
		resp.ApprovedBy = &approver
	}
	if v.ApprovedAt != nil {
		at := v.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &at
	}
	resp.RejectionReason = v.RejectionReason
	return resp
}

func mapToListResponse(vacations []Vacation) []VacationResponse {
	res := make([]VacationResponse, len(vacations))
	for i, v := range vacations {
		res[i] = mapToResponse(v)
	}
	return res
}

func mapBalance(b Balance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:      b.EmployeeID.String(),
		Year:            b.Year,
		TotalDays:       b.TotalDays,
		UsedDays:        b.UsedDays,
		CarriedOverDays: b.CarriedOverDays,
		RemainingDays:   b.Remaining(),
	}
}
