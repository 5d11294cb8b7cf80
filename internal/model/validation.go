package model

import (
	"time"

	"github.com/google/uuid"
)

// ValidationType enum constants
const (
	ValidationTypeMissingData = "missing_data"
	ValidationTypeDuplicate   = "duplicate"
)

// ValidationSeverity enum constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// InvoiceValidation is a finding produced by the validation engine at
// invoice creation time. Findings are resolved individually by a reviewer;
// the invoice's has_validation_issues flag tracks whether any unresolved
// finding remains.
type InvoiceValidation struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID      uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ValidationType string    `gorm:"type:varchar(30);not null" json:"validation_type"` // missing_data, duplicate
	Severity       string    `gorm:"type:varchar(10);not null;default:'info'" json:"severity"`
	Message        string    `gorm:"type:text" json:"message"`
	FieldName      string    `gorm:"type:varchar(100)" json:"field_name"`
	Resolved       bool      `gorm:"default:false;index" json:"resolved"`
	CreatedAt      time.Time `json:"created_at"`
}
