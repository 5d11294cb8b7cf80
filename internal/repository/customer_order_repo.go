package repository

import (
	"context"

	"invoicehub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerOrderRepository interface {
	Create(ctx context.Context, order *model.CustomerOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CustomerOrder, error)
	List(ctx context.Context, businessID *uuid.UUID, page, limit int) ([]model.CustomerOrder, int64, error)
}

type customerOrderRepository struct {
	db *gorm.DB
}

func NewCustomerOrderRepository(db *gorm.DB) CustomerOrderRepository {
	return &customerOrderRepository{db: db}
}

func (r *customerOrderRepository) Create(ctx context.Context, order *model.CustomerOrder) error {
	// Items are created through the association in one insert batch
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *customerOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CustomerOrder, error) {
	var order model.CustomerOrder
	if err := GetDB(ctx, r.db).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *customerOrderRepository) List(ctx context.Context, businessID *uuid.UUID, page, limit int) ([]model.CustomerOrder, int64, error) {
	var orders []model.CustomerOrder
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.CustomerOrder{})
	if businessID != nil {
		query = query.Where("business_id = ?", *businessID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetchQuery := db.Preload("Items")
	if businessID != nil {
		fetchQuery = fetchQuery.Where("business_id = ?", *businessID)
	}
	if err := fetchQuery.Order("created_at desc").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}
