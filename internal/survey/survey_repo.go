package survey

import (
	"context"
	"database/sql"

	"driftpro/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=survey_repo.go -destination=mock/survey_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, s *Survey) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListSurveysFilter) ([]Survey, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Survey, error)
	Update(ctx context.Context, s *Survey) error
	Delete(ctx context.Context, companyID, id string) error

	CreateSubmission(ctx context.Context, sub *Submission) error
	FindSubmissions(ctx context.Context, companyID, surveyID string) ([]Submission, error)
	IncrementResponseCount(ctx context.Context, companyID, surveyID string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn binds the session to the surrounding transaction when one is set.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, s *Survey) error {
	return r.conn(ctx).Create(s).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListSurveysFilter) ([]Survey, error) {
	db := r.conn(ctx).Scopes(tenant.Scope(companyID))
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var surveys []Survey
	err := db.Order("created_at DESC").Find(&surveys).Error
	return surveys, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Survey, error) {
	var s Survey
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) Update(ctx context.Context, s *Survey) error {
	return r.conn(ctx).Save(s).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Survey{}, "id = ?", id).Error
}

func (r *repository) CreateSubmission(ctx context.Context, sub *Submission) error {
	return r.conn(ctx).Create(sub).Error
}

func (r *repository) FindSubmissions(ctx context.Context, companyID, surveyID string) ([]Submission, error) {
	var subs []Submission
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("survey_id = ?", surveyID).
		Order("created_at ASC").
		Find(&subs).Error
	return subs, err
}

func (r *repository) IncrementResponseCount(ctx context.Context, companyID, surveyID string) error {
	return r.conn(ctx).
		Model(&Survey{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", surveyID).
		UpdateColumn("response_count", gorm.Expr("response_count + 1")).Error
}
