package repository

import (
	"context"

	"invoicehub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	Create(ctx context.Context, item *model.CatalogItem) error
	Update(ctx context.Context, item *model.CatalogItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, activeOnly bool) ([]model.CatalogItem, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Create(ctx context.Context, item *model.CatalogItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *catalogRepository) Update(ctx context.Context, item *model.CatalogItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *catalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.CatalogItem{}).Error
}

func (r *catalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error) {
	var item model.CatalogItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, activeOnly bool) ([]model.CatalogItem, error) {
	var items []model.CatalogItem
	query := GetDB(ctx, r.db).Where("business_id = ?", businessID)
	if activeOnly {
		query = query.Where("is_active = true")
	}
	if err := query.Order("category asc, item_name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
