package repository

import (
	"context"

	"invoicehub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalRepository interface {
	Create(ctx context.Context, approval *model.InvoiceApproval) error
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceApproval, error)
}

type approvalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(ctx context.Context, approval *model.InvoiceApproval) error {
	return GetDB(ctx, r.db).Create(approval).Error
}

func (r *approvalRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceApproval, error) {
	var approvals []model.InvoiceApproval
	err := GetDB(ctx, r.db).
		Where("invoice_id = ?", invoiceID).
		Order("created_at desc").
		Find(&approvals).Error
	if err != nil {
		return nil, err
	}
	return approvals, nil
}
