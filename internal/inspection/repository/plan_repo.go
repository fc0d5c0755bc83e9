package repository

import (
	"context"
	"errors"

	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"gorm.io/gorm"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// FindByInspectionID loads the plan and its items for one inspection.
func (r *PlanRepository) FindByInspectionID(ctx context.Context, inspectionID string) (*entity.ActionPlan, error) {
	var plan entity.ActionPlan
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("inspection_id = ?", inspectionID).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	entity.SortItems(plan.Items)
	return &plan, nil
}

// Create inserts a plan together with its items.
func (r *PlanRepository) Create(ctx context.Context, plan *entity.ActionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

// Update saves the plan row only, not its items.
func (r *PlanRepository) Update(ctx context.Context, plan *entity.ActionPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

// FindItemByID loads one item.
func (r *PlanRepository) FindItemByID(ctx context.Context, id string) (*entity.ActionPlanItem, error) {
	var item entity.ActionPlanItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// UpdateItem saves one item row.
func (r *PlanRepository) UpdateItem(ctx context.Context, item *entity.ActionPlanItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// CreateItem inserts one item.
func (r *PlanRepository) CreateItem(ctx context.Context, item *entity.ActionPlanItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// DeleteItem removes one item.
func (r *PlanRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.ActionPlanItem{}, "id = ?", id).Error
}
