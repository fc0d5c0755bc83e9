package repository

import (
	"context"
	"errors"

	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"gorm.io/gorm"
)

type InspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// FindAll lists inspections with optional filters, newest first.
func (r *InspectionRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Inspection, int64, error) {
	var items []entity.Inspection
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Inspection{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if establishmentID := filters["establishment_id"]; establishmentID != "" {
		query = query.Where("establishment_id = ?", establishmentID)
	}
	if uploadedBy := filters["uploaded_by"]; uploadedBy != "" {
		query = query.Where("uploaded_by = ?", uploadedBy)
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

// FindByID loads one inspection without its plan.
func (r *InspectionRepository) FindByID(ctx context.Context, id string) (*entity.Inspection, error) {
	var inspection entity.Inspection
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&inspection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inspection, nil
}

// FindByIDWithPlan loads one inspection with its plan and items.
func (r *InspectionRepository) FindByIDWithPlan(ctx context.Context, id string) (*entity.Inspection, error) {
	var inspection entity.Inspection
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Preload("Plan.Items").
		Where("id = ?", id).
		First(&inspection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if inspection.Plan != nil {
		entity.SortItems(inspection.Plan.Items)
	}
	return &inspection, nil
}

// FindByFileHash finds a previous upload of the same file, if any.
func (r *InspectionRepository) FindByFileHash(ctx context.Context, hash string) (*entity.Inspection, error) {
	var inspection entity.Inspection
	err := r.db.WithContext(ctx).
		Where("file_hash = ?", hash).
		Order("created_at DESC").
		First(&inspection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inspection, nil
}

// Create inserts a new inspection.
func (r *InspectionRepository) Create(ctx context.Context, inspection *entity.Inspection) error {
	return r.db.WithContext(ctx).Create(inspection).Error
}

// Update saves the full inspection row.
func (r *InspectionRepository) Update(ctx context.Context, inspection *entity.Inspection) error {
	return r.db.WithContext(ctx).Save(inspection).Error
}

// CountByStatus groups inspection counts by status, for the dashboard.
func (r *InspectionRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&entity.Inspection{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// FindPendingReview lists inspections waiting for a manager, oldest first.
func (r *InspectionRepository) FindPendingReview(ctx context.Context, limit int) ([]entity.Inspection, error) {
	var items []entity.Inspection
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.InspectionStatusPendingManagerReview).
		Order("created_at ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
