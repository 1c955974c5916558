package timeclock

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	timeclockerrors "driftpro/internal/timeclock/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=timeclock_service.go -destination=mock/timeclock_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (EntryResponse, error)
	ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (EntryResponse, error)
	Status(ctx context.Context, companyID, employeeID string) (StatusResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListEntriesFilter) ([]EntryResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("timeclock.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timeclock.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (EntryResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EntryResponse{}, timeclockerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return EntryResponse{}, timeclockerrors.ErrEntryNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindOpenByEmployee(ctx, companyID, employeeID); err == nil {
		return EntryResponse{}, timeclockerrors.ErrAlreadyClockedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return EntryResponse{}, err
	}

	e := &Entry{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		ClockIn:    time.Now().UTC(),
		Notes:      req.Notes,
	}
	if err := qtx.Create(ctx, e); err != nil {
		if isUniqueViolation(err) {
			return EntryResponse{}, timeclockerrors.ErrAlreadyClockedIn
		}
		return EntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EntryResponse{}, err
	}

	s.logger.Info("clock in", zap.String("employee_id", employeeID))
	return mapToResponse(*e), nil
}

func (s *service) ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (EntryResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindOpenByEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EntryResponse{}, timeclockerrors.ErrNotClockedIn
		}
		return EntryResponse{}, err
	}

	now := time.Now().UTC()
	e.ClockOut = &now
	e.TotalHours = roundHours(now.Sub(e.ClockIn))
	if req.Notes != "" {
		e.Notes = req.Notes
	}

	if err := qtx.Update(ctx, e); err != nil {
		return EntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EntryResponse{}, err
	}

	s.logger.Info("clock out",
		zap.String("employee_id", employeeID),
		zap.Float64("total_hours", e.TotalHours),
	)
	return mapToResponse(*e), nil
}

func (s *service) Status(ctx context.Context, companyID, employeeID string) (StatusResponse, error) {
	e, err := s.repo.FindOpenByEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StatusResponse{ClockedIn: false}, nil
		}
		return StatusResponse{}, err
	}
	resp := mapToResponse(*e)
	return StatusResponse{ClockedIn: true, Entry: &resp}, nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListEntriesFilter) ([]EntryResponse, error) {
	entries, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	res := make([]EntryResponse, len(entries))
	for i, e := range entries {
		res[i] = mapToResponse(e)
	}
	return res, nil
}

// roundHours keeps two decimals.
func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func mapToResponse(e Entry) EntryResponse {
	resp := EntryResponse{
		ID:         e.ID.String(),
		EmployeeID: e.EmployeeID.String(),
		ClockIn:    e.ClockIn.UTC().Format(time.RFC3339),
		TotalHours: e.TotalHours,
		Notes:      e.Notes,
		Open:       e.Open(),
	}
	if e.ClockOut != nil {
		out := e.ClockOut.UTC().Format(time.RFC3339)
		resp.ClockOut = &out
	}
	return resp
}
