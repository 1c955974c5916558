package company

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"driftpro/internal/brreg"
	companyerrors "driftpro/internal/company/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Registry is the slice of the brreg client this service needs.
type Registry interface {
	GetCompanyInfo(ctx context.Context, orgNumber string) (*brreg.CompanyInfo, error)
	SearchCompanies(ctx context.Context, term string) ([]brreg.CompanyInfo, error)
}

//go:generate mockgen -source=company_service.go -destination=mock/company_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context, companyID string) (CompanyResponse, error)
	Update(ctx context.Context, companyID string, req UpdateCompanyRequest) (CompanyResponse, error)
	Enrich(ctx context.Context, companyID string) (CompanyResponse, error)
	LookupRegistry(ctx context.Context, orgNumber string) (*brreg.CompanyInfo, error)
	SearchRegistry(ctx context.Context, term string) ([]brreg.CompanyInfo, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	registry Registry
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, registry Registry, logger ...*zap.Logger) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{db: db, repo: repo, registry: registry, logger: l}
}

func (s *service) Get(ctx context.Context, companyID string) (CompanyResponse, error) {
	c, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, companyerrors.ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}
	return mapToResponse(*c), nil
}

func (s *service) Update(ctx context.Context, companyID string, req UpdateCompanyRequest) (CompanyResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CompanyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := qtx.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, companyerrors.ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.Website != nil {
		c.Website = *req.Website
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	c.UpdatedAt = time.Now().UTC()

	if err := qtx.Update(ctx, c); err != nil {
		return CompanyResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return CompanyResponse{}, err
	}

	return mapToResponse(*c), nil
}

// Enrich pulls the public registry record for the company's organization
// number and merges the registration data into the local record. Fields
// the tenant maintains themselves (name, email, phone) are only filled
// when empty.
func (s *service) Enrich(ctx context.Context, companyID string) (CompanyResponse, error) {
	c, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, companyerrors.ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}

	if c.OrgNumber == "" {
		return CompanyResponse{}, companyerrors.ErrMissingOrgNumber
	}

	info, err := s.registry.GetCompanyInfo(ctx, c.OrgNumber)
	if err != nil {
		return CompanyResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CompanyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if c.Name == "" {
		c.Name = info.Name
	}
	c.Address = info.Address
	c.PostalCode = info.PostalCode
	c.City = info.City
	c.OrgForm = info.OrgForm
	c.IndustryCode = info.IndustryCode
	c.IndustryText = info.IndustryText
	c.EmployeeCount = info.EmployeeCount
	if c.Website == "" {
		c.Website = info.Website
	}
	now := time.Now().UTC()
	c.EnrichedAt = &now
	c.UpdatedAt = now

	if err := qtx.Update(ctx, c); err != nil {
		return CompanyResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return CompanyResponse{}, err
	}

	s.logger.Info("company enriched from registry",
		zap.String("company_id", companyID),
		zap.String("org_number", c.OrgNumber),
	)
	return mapToResponse(*c), nil
}

func (s *service) LookupRegistry(ctx context.Context, orgNumber string) (*brreg.CompanyInfo, error) {
	return s.registry.GetCompanyInfo(ctx, orgNumber)
}

func (s *service) SearchRegistry(ctx context.Context, term string) ([]brreg.CompanyInfo, error) {
	return s.registry.SearchCompanies(ctx, term)
}

func mapToResponse(c Company) CompanyResponse {
	resp := CompanyResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		OrgNumber:     c.OrgNumber,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		PostalCode:    c.PostalCode,
		City:          c.City,
		Website:       c.Website,
		OrgForm:       c.OrgForm,
		IndustryCode:  c.IndustryCode,
		IndustryText:  c.IndustryText,
		EmployeeCount: c.EmployeeCount,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if c.EnrichedAt != nil {
		resp.EnrichedAt = c.EnrichedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
