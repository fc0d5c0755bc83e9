package repository

import (
	"context"
	"errors"

	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// FindAll lists jobs, newest first.
func (r *JobRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Job, int64, error) {
	var items []entity.Job
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Job{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if inspectionID := filters["inspection_id"]; inspectionID != "" {
		query = query.Where("inspection_id = ?", inspectionID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads one job.
func (r *JobRepository) FindByID(ctx context.Context, id string) (*entity.Job, error) {
	var job entity.Job
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindLatestByInspectionID loads the most recent job for an inspection.
func (r *JobRepository) FindLatestByInspectionID(ctx context.Context, inspectionID string) (*entity.Job, error) {
	var job entity.Job
	err := r.db.WithContext(ctx).
		Where("inspection_id = ?", inspectionID).
		Order("created_at DESC").
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// Create inserts a new job.
func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// Update saves the full job row.
func (r *JobRepository) Update(ctx context.Context, job *entity.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// SumCosts aggregates token and cost totals over all jobs.
func (r *JobRepository) SumCosts(ctx context.Context) (inputTokens, outputTokens int64, costUSD float64, err error) {
	type row struct {
		InputTokens  int64
		OutputTokens int64
		CostUSD      float64
	}
	var agg row
	err = r.db.WithContext(ctx).
		Model(&entity.Job{}).
		Select("COALESCE(SUM(input_tokens),0) as input_tokens, COALESCE(SUM(output_tokens),0) as output_tokens, COALESCE(SUM(cost_usd),0) as cost_usd").
		Scan(&agg).Error
	return agg.InputTokens, agg.OutputTokens, agg.CostUSD, err
}
