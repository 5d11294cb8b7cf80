package database

import (
	"invoicehub/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.Supplier{},
		&model.PurchaseOrder{},
		&model.Invoice{},
		&model.InvoiceLineItem{},
		&model.InvoiceValidation{},
		&model.InvoiceApproval{},
		&model.CatalogItem{},
		&model.BusinessProfile{},
		&model.CustomerOrder{},
		&model.CustomerOrderItem{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to auto-migrate models")
	}

	return db, nil
}
