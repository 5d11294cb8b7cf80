package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus enum constants
const (
	POStatusOpen   = "open"
	POStatusClosed = "closed"
)

// PurchaseOrder is master data an invoice may reference
type PurchaseOrder struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PONumber    string           `gorm:"type:varchar(100);not null;index" json:"po_number"`
	SupplierID  *uuid.UUID       `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier    *Supplier        `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	TotalAmount *decimal.Decimal `gorm:"type:decimal(18,4)" json:"total_amount"`
	Status      string           `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedDate *time.Time       `json:"created_date"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
