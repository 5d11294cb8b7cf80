package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants
const (
	InvoiceStatusDraft           = "draft"
	InvoiceStatusPendingApproval = "pending_approval"
	InvoiceStatusApproved        = "approved"
	InvoiceStatusRejected        = "rejected"
	InvoiceStatusArchived        = "archived"
)

// FileType enum constants
const (
	FileTypeManual = "manual"
	FileTypeUpload = "upload"
)

// Invoice is a supplier bill tracked through the draft/approval lifecycle.
// invoice_number is unique per business by convention only; duplicates are
// detected by the validation engine, not rejected by the database.
type Invoice struct {
	ID                  uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNumber       string              `gorm:"type:varchar(100);index" json:"invoice_number"`
	SupplierID          *uuid.UUID          `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier            *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	POID                *uuid.UUID          `gorm:"type:uuid;index" json:"po_id"`
	PurchaseOrder       *PurchaseOrder      `gorm:"foreignKey:POID" json:"purchase_order,omitempty"`
	InvoiceDate         *time.Time          `json:"invoice_date"`
	DueDate             *time.Time          `json:"due_date"`
	Subtotal            decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"subtotal"`
	TaxAmount           decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"tax_amount"`
	TotalAmount         decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	Currency            string              `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`
	Status              string              `gorm:"type:varchar(30);not null;default:'draft';index" json:"status"`
	FilePath            string              `gorm:"type:text" json:"file_path"`
	FileType            string              `gorm:"type:varchar(20)" json:"file_type"`
	OCRProcessed        bool                `gorm:"default:false" json:"ocr_processed"`
	HasValidationIssues bool                `gorm:"default:false;index" json:"has_validation_issues"`
	IsDuplicate         bool                `gorm:"default:false" json:"is_duplicate"`
	Notes               string              `gorm:"type:text" json:"notes"`
	LineItems           []InvoiceLineItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"line_items,omitempty"`
	Validations         []InvoiceValidation `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"validations,omitempty"`
	Approvals           []InvoiceApproval   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"approvals,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// InvoiceLineItem belongs to exactly one invoice. line_total is stored
// exactly as submitted; the server never recomputes quantity * unit_price.
type InvoiceLineItem struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Description string           `gorm:"type:text" json:"description"`
	Quantity    decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:1" json:"quantity"`
	UnitPrice   decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"unit_price"`
	LineTotal   decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"line_total"`
	TaxRate     *decimal.Decimal `gorm:"type:decimal(8,4)" json:"tax_rate"`
	CreatedAt   time.Time        `json:"created_at"`
}
