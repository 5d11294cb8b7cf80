package repository

import (
	"context"

	"invoicehub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ValidationRepository interface {
	CreateBatch(ctx context.Context, findings []model.InvoiceValidation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InvoiceValidation, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceValidation, error)
	MarkResolved(ctx context.Context, id uuid.UUID) error
	CountUnresolved(ctx context.Context, invoiceID uuid.UUID) (int64, error)
}

type validationRepository struct {
	db *gorm.DB
}

func NewValidationRepository(db *gorm.DB) ValidationRepository {
	return &validationRepository{db: db}
}

func (r *validationRepository) CreateBatch(ctx context.Context, findings []model.InvoiceValidation) error {
	if len(findings) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&findings).Error
}

func (r *validationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InvoiceValidation, error) {
	var finding model.InvoiceValidation
	if err := GetDB(ctx, r.db).First(&finding, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &finding, nil
}

func (r *validationRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceValidation, error) {
	var findings []model.InvoiceValidation
	err := GetDB(ctx, r.db).
		Where("invoice_id = ?", invoiceID).
		Order("created_at asc").
		Find(&findings).Error
	if err != nil {
		return nil, err
	}
	return findings, nil
}

func (r *validationRepository) MarkResolved(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.InvoiceValidation{}).Where("id = ?", id).Update("resolved", true).Error
}

func (r *validationRepository) CountUnresolved(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.InvoiceValidation{}).
		Where("invoice_id = ? AND resolved = false", invoiceID).
		Count(&count).Error
	return count, err
}
