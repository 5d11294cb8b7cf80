package service

import (
	"context"
	"testing"

	"invoicehub/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOverview(t *testing.T) {
	invoiceRepo := newFakeInvoiceRepo()
	invoiceRepo.statusCounts = map[string]int64{
		model.InvoiceStatusDraft:           4,
		model.InvoiceStatusPendingApproval: 2,
		model.InvoiceStatusApproved:        10,
		model.InvoiceStatusRejected:        1,
	}
	invoiceRepo.withIssues = 3
	invoiceRepo.duplicates = 1
	invoiceRepo.approvedTotal = decimal.RequireFromString("1234.50")

	svc := NewStatisticsService(invoiceRepo)

	overview, err := svc.GetOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(17), overview.TotalInvoices)
	assert.Equal(t, int64(2), overview.PendingApproval)
	assert.Equal(t, int64(3), overview.WithValidationIssues)
	assert.Equal(t, int64(1), overview.Duplicates)
	assert.Equal(t, int64(10), overview.ByStatus[model.InvoiceStatusApproved])
	assert.Equal(t, "1234.5000", overview.ApprovedTotal)
}
