package model

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus enum constants
const (
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// InvoiceApproval is one approve/reject decision on an invoice. Rows are
// append-only; an invoice keeps its full decision history.
type InvoiceApproval struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Status        string     `gorm:"type:varchar(20);not null" json:"status"` // approved, rejected
	ApproverEmail string     `gorm:"type:varchar(255);not null" json:"approver_email"`
	ApprovedAt    *time.Time `json:"approved_at"`
	Comments      string     `gorm:"type:text" json:"comments"`
	CreatedAt     time.Time  `json:"created_at"`
}
