package model

import (
	"time"

	"github.com/google/uuid"
)

// BusinessProfile holds the business identity shown on invoices and the
// public customer order form. One profile per user.
type BusinessProfile struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	BusinessName    string    `gorm:"type:varchar(255);not null" json:"business_name"`
	LogoURL         string    `gorm:"type:text" json:"logo_url"`
	ContactEmail    string    `gorm:"type:varchar(255);not null" json:"contact_email"`
	ContactPhone    string    `gorm:"type:varchar(50)" json:"contact_phone"`
	Address         string    `gorm:"type:text" json:"address"`
	TaxID           string    `gorm:"type:varchar(50)" json:"tax_id"`
	DefaultCurrency string    `gorm:"type:varchar(10);not null;default:'USD'" json:"default_currency"`
	Timezone        string    `gorm:"type:varchar(100);not null;default:'UTC'" json:"timezone"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
