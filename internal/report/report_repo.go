package report

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	CountByStatus(ctx context.Context, table, companyID string) (map[string]int64, error)
	CountOpenDeviations(ctx context.Context, companyID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type statusCount struct {
	Status string
	N      int64
}

// CountByStatus runs one grouped query per table instead of a count per
// status value.
func (r *repository) CountByStatus(ctx context.Context, table, companyID string) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Table(table).
		Select("status, COUNT(*) AS n").
		Where("company_id = ? AND deleted_at IS NULL", companyID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

func (r *repository) CountOpenDeviations(ctx context.Context, companyID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Table("deviations").
		Where("company_id = ? AND deleted_at IS NULL AND status IN ?", companyID, []string{"pending", "in_progress"}).
		Count(&n).Error
	return n, err
}
