package repository

import (
	"context"
	"errors"

	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"gorm.io/gorm"
)

type EstablishmentRepository struct {
	db *gorm.DB
}

func NewEstablishmentRepository(db *gorm.DB) *EstablishmentRepository {
	return &EstablishmentRepository{db: db}
}

// FindAll lists establishments with optional filters.
func (r *EstablishmentRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Establishment, int64, error) {
	var items []entity.Establishment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Establishment{})

	if companyID := filters["company_id"]; companyID != "" {
		query = query.Where("company_id = ?", companyID)
	}
	if consultantID := filters["consultant_id"]; consultantID != "" {
		query = query.Where("consultant_id = ?", consultantID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Company").
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads one establishment with company and contacts.
func (r *EstablishmentRepository) FindByID(ctx context.Context, id string) (*entity.Establishment, error) {
	var est entity.Establishment
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Contacts").
		Where("id = ?", id).
		First(&est).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &est, nil
}

// Create inserts a new establishment.
func (r *EstablishmentRepository) Create(ctx context.Context, est *entity.Establishment) error {
	return r.db.WithContext(ctx).Create(est).Error
}

// Update saves the full establishment row.
func (r *EstablishmentRepository) Update(ctx context.Context, est *entity.Establishment) error {
	return r.db.WithContext(ctx).Save(est).Error
}

// CreateCompany inserts a new company.
func (r *EstablishmentRepository) CreateCompany(ctx context.Context, company *entity.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

// FindCompanies lists all companies with their establishments.
func (r *EstablishmentRepository) FindCompanies(ctx context.Context) ([]entity.Company, error) {
	var companies []entity.Company
	err := r.db.WithContext(ctx).
		Preload("Establishments").
		Order("name ASC").
		Find(&companies).Error
	return companies, err
}

// CreateContact inserts a contact for an establishment.
func (r *EstablishmentRepository) CreateContact(ctx context.Context, contact *entity.EstablishmentContact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// FindPrimaryContact returns the primary contact of an establishment, or the
// first one when none is marked primary.
func (r *EstablishmentRepository) FindPrimaryContact(ctx context.Context, establishmentID string) (*entity.EstablishmentContact, error) {
	var contact entity.EstablishmentContact
	err := r.db.WithContext(ctx).
		Where("establishment_id = ?", establishmentID).
		Order("is_primary DESC, created_at ASC").
		First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}
