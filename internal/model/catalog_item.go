package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogItem is a sellable product or service a business offers to its
// customers through the public order form
type CatalogItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BusinessID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	ItemName    string          `gorm:"type:varchar(255);not null" json:"item_name"`
	Description string          `gorm:"type:text" json:"description"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"unit_price"`
	Currency    string          `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`
	Category    string          `gorm:"type:varchar(100)" json:"category"`
	SKU         string          `gorm:"type:varchar(100)" json:"sku"`
	IsActive    bool            `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
