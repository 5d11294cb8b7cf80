package repository

import (
	"context"

	"invoicehub/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceListFilter narrows List queries
type InvoiceListFilter struct {
	Status string // draft, pending_approval, approved, rejected, archived or empty for all
	Search string // partial match on invoice_number
	Page   int
	Limit  int
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	CreateLineItems(ctx context.Context, items []model.InvoiceLineItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	ListForExport(ctx context.Context, status string) ([]model.Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SetValidationIssues(ctx context.Context, id uuid.UUID, hasIssues bool) error
	MarkDuplicate(ctx context.Context, id uuid.UUID) error
	CountByNumberExcluding(ctx context.Context, invoiceNumber string, excludeID uuid.UUID) (int64, error)
	StatusCounts(ctx context.Context) (map[string]int64, error)
	FlagCounts(ctx context.Context) (withIssues int64, duplicates int64, err error)
	ApprovedTotal(ctx context.Context) (decimal.Decimal, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) CreateLineItems(ctx context.Context, items []model.InvoiceLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&items).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := GetDB(ctx, r.db).
		Preload("Supplier").
		Preload("PurchaseOrder").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Preload("Validations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc")
		}).
		First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	query := applyInvoiceFilter(db.Model(&model.Invoice{}), filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	fetchQuery := applyInvoiceFilter(db.Model(&model.Invoice{}).Preload("Supplier"), filter)
	if err := fetchQuery.Order("invoices.created_at desc").Offset(offset).Limit(filter.Limit).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// applyInvoiceFilter adds the status and search predicates. Search matches the
// invoice number or the supplier name, case-insensitively.
func applyInvoiceFilter(query *gorm.DB, filter InvoiceListFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("invoices.status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.
			Joins("LEFT JOIN suppliers ON suppliers.id = invoices.supplier_id").
			Where("invoices.invoice_number ILIKE ? OR suppliers.name ILIKE ?", pattern, pattern)
	}
	return query
}

func (r *invoiceRepository) ListForExport(ctx context.Context, status string) ([]model.Invoice, error) {
	var invoices []model.Invoice
	query := GetDB(ctx, r.db).Preload("Supplier").Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Invoice{}).Where("id = ?", id).Update("status", status).Error
}

func (r *invoiceRepository) SetValidationIssues(ctx context.Context, id uuid.UUID, hasIssues bool) error {
	return GetDB(ctx, r.db).Model(&model.Invoice{}).Where("id = ?", id).Update("has_validation_issues", hasIssues).Error
}

func (r *invoiceRepository) MarkDuplicate(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Invoice{}).Where("id = ?", id).Update("is_duplicate", true).Error
}

func (r *invoiceRepository) CountByNumberExcluding(ctx context.Context, invoiceNumber string, excludeID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("invoice_number = ? AND id <> ?", invoiceNumber, excludeID).
		Count(&count).Error
	return count, err
}

func (r *invoiceRepository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Select("status, count(*) as count").
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

func (r *invoiceRepository) FlagCounts(ctx context.Context) (int64, int64, error) {
	var withIssues, duplicates int64
	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Invoice{}).Where("has_validation_issues = true").Count(&withIssues).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&model.Invoice{}).Where("is_duplicate = true").Count(&duplicates).Error; err != nil {
		return 0, 0, err
	}
	return withIssues, duplicates, nil
}

func (r *invoiceRepository) ApprovedTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("status = ?", model.InvoiceStatusApproved).
		Select("sum(total_amount)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
