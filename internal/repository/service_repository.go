package repository

import (
	"context"

	"gorm.io/gorm"

	"servicedirectory/internal/model"
)

// ServiceRepository defines service record persistence operations.
type ServiceRepository interface {
	List(ctx context.Context) ([]model.ServiceRecord, error)
	FindByFilter(ctx context.Context, pincode string, category model.Category) ([]model.ServiceRecord, error)
	Create(ctx context.Context, record *model.ServiceRecord) error
}

type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository builds a GORM-backed service repository.
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

// List returns every record in creation order.
func (r *serviceRepository) List(ctx context.Context) ([]model.ServiceRecord, error) {
	records := []model.ServiceRecord{}
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByFilter returns records with exactly this pincode and category.
// Categories are stored lower-case, so the comparison is on the canonical value.
func (r *serviceRepository) FindByFilter(ctx context.Context, pincode string, category model.Category) ([]model.ServiceRecord, error) {
	records := []model.ServiceRecord{}
	err := r.db.WithContext(ctx).
		Where("pincode = ? AND service_type = ?", pincode, string(category)).
		Order("created_at, id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Create validates and inserts a record, assigning its ID.
func (r *serviceRepository) Create(ctx context.Context, record *model.ServiceRecord) error {
	record.Normalize()
	if err := record.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(record).Error
}
