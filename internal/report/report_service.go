package report

import (
	"context"
	"time"

	"go.uber.org/zap"
)

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Summary(ctx context.Context, companyID string) (SummaryResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Summary(ctx context.Context, companyID string) (SummaryResponse, error) {
	resp := SummaryResponse{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	var err error
	if resp.Employees, err = s.repo.CountByStatus(ctx, "users", companyID); err != nil {
		return SummaryResponse{}, err
	}
	if resp.Absences, err = s.repo.CountByStatus(ctx, "absences", companyID); err != nil {
		return SummaryResponse{}, err
	}
	if resp.Vacations, err = s.repo.CountByStatus(ctx, "vacations", companyID); err != nil {
		return SummaryResponse{}, err
	}
	if resp.Shifts, err = s.repo.CountByStatus(ctx, "shifts", companyID); err != nil {
		return SummaryResponse{}, err
	}
	if resp.OpenDeviations, err = s.repo.CountOpenDeviations(ctx, companyID); err != nil {
		return SummaryResponse{}, err
	}

	return resp, nil
}
