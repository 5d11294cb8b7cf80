package model

import (
	"time"

	"github.com/google/uuid"
)

// CustomerOrderStatus enum constants
const (
	CustomerOrderNew       = "new"
	CustomerOrderProcessed = "processed"
)

// CustomerOrder is an order submitted by a customer through the public
// form. It carries contact details as entered, not a customer account.
type CustomerOrder struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BusinessID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"business_id"`
	CustomerName    string              `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail   string              `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerPhone   string              `gorm:"type:varchar(50)" json:"customer_phone"`
	CustomerAddress string              `gorm:"type:text" json:"customer_address"`
	Notes           string              `gorm:"type:text" json:"notes"`
	Status          string              `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	Items           []CustomerOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// CustomerOrderItem is one line of a customer order. catalog_item_id is
// nullable so the order survives catalog edits.
type CustomerOrderItem struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	CatalogItemID *uuid.UUID `gorm:"type:uuid" json:"catalog_item_id"`
	ItemName      string     `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity      int        `gorm:"not null;default:1" json:"quantity"`
	Notes         string     `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
}
