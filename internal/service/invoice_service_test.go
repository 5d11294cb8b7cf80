package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"invoicehub/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvoiceServiceForTest(invoiceRepo *fakeInvoiceRepo, validationRepo *fakeValidationRepo, auditRepo *fakeAuditRepo, events EventPublisher) InvoiceService {
	return NewInvoiceService(invoiceRepo, validationRepo, auditRepo, &fakeTxManager{}, events)
}

func TestCreateInvoiceStoresLineTotalVerbatim(t *testing.T) {
	invoiceRepo := newFakeInvoiceRepo()
	svc := newInvoiceServiceForTest(invoiceRepo, newFakeValidationRepo(), &fakeAuditRepo{}, nil)

	supplierID := uuid.New().String()
	// 3 x 9.99 is 29.97; the client sends 29.96 and that is what gets stored
	req := CreateInvoiceRequest{
		InvoiceNumber: "INV-2026-001",
		SupplierID:    supplierID,
		InvoiceDate:   "2026-03-01",
		TotalAmount:   "29.96",
		LineItems: []LineItemInput{
			{Description: "Widgets", Quantity: "3", UnitPrice: "9.99", LineTotal: "29.96"},
		},
	}

	detail, err := svc.CreateInvoice(context.Background(), req, nil)
	require.NoError(t, err)

	require.Len(t, detail.LineItems, 1)
	assert.Equal(t, "29.9600", detail.LineItems[0].LineTotal)
	assert.Equal(t, "29.9600", detail.TotalAmount)
	assert.Equal(t, model.InvoiceStatusDraft, detail.Status)
	assert.False(t, detail.HasValidationIssues)
}

func TestCreateInvoiceSkipsBlankLineItems(t *testing.T) {
	invoiceRepo := newFakeInvoiceRepo()
	svc := newInvoiceServiceForTest(invoiceRepo, newFakeValidationRepo(), &fakeAuditRepo{}, nil)

	req := CreateInvoiceRequest{
		InvoiceNumber: "INV-2026-002",
		SupplierID:    uuid.New().String(),
		InvoiceDate:   "2026-03-01",
		TotalAmount:   "100.00",
		LineItems: []LineItemInput{
			{Description: "", Quantity: "1", UnitPrice: "0", LineTotal: "0"},
			{Description: "Consulting", Quantity: "2", UnitPrice: "50.00", LineTotal: "100.00"},
		},
	}

	detail, err := svc.CreateInvoice(context.Background(), req, nil)
	require.NoError(t, err)

	require.Len(t, detail.LineItems, 1)
	assert.Equal(t, "Consulting", detail.LineItems[0].Description)
}

func TestCreateInvoiceRecordsMissingDataFindings(t *testing.T) {
	invoiceRepo := newFakeInvoiceRepo()
	validationRepo := newFakeValidationRepo()
	svc := newInvoiceServiceForTest(invoiceRepo, validationRepo, &fakeAuditRepo{}, nil)

	// No number, no supplier, no date: one error and two warnings
	detail, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{TotalAmount: "10.00"}, nil)
	require.NoError(t, err)

	assert.True(t, detail.HasValidationIssues)
	assert.False(t, detail.IsDuplicate)

	invoiceID := uuid.MustParse(detail.ID)
	findings, err := validationRepo.ListByInvoice(context.Background(), invoiceID)
	require.NoError(t, err)
	require.Len(t, findings, 3)

	messages := make([]string, 0, len(findings))
	for _, f := range findings {
		messages = append(messages, f.Message)
	}
	assert.ElementsMatch(t, []string{MsgInvoiceNumberRequired, MsgSupplierNotSpecified, MsgDateNotSpecified}, messages)
}

func TestCreateInvoiceFlagsDuplicateNumber(t *testing.T) {
	invoiceRepo := newFakeInvoiceRepo()
	invoiceRepo.duplicateCount = 1
	validationRepo := newFakeValidationRepo()
	events := &fakePublisher{}
	svc := newInvoiceServiceForTest(invoiceRepo, validationRepo, &fakeAuditRepo{}, events)

	req := CreateInvoiceRequest{
		InvoiceNumber: "INV-DUP",
		SupplierID:    uuid.New().String(),
		InvoiceDate:   "2026-03-01",
		TotalAmount:   "42.00",
	}

	detail, err := svc.CreateInvoice(context.Background(), req, nil)
	require.NoError(t, err)

	assert.True(t, detail.IsDuplicate)
	assert.True(t, detail.HasValidationIssues)

	findings, err := validationRepo.ListByInvoice(context.Background(), uuid.MustParse(detail.ID))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, MsgDuplicateDetected, findings[0].Message)
	assert.Equal(t, model.SeverityError, findings[0].Severity)
	assert.Equal(t, model.ValidationTypeDuplicate, findings[0].ValidationType)

	require.Len(t, events.events, 1)
	assert.Equal(t, EventInvoiceCreated, events.events[0].name)
}

func TestCreateInvoiceRejectsBadAmounts(t *testing.T) {
	svc := newInvoiceServiceForTest(newFakeInvoiceRepo(), newFakeValidationRepo(), &fakeAuditRepo{}, nil)

	tests := []struct {
		name string
		req  CreateInvoiceRequest
		want string
	}{
		{
			name: "bad total",
			req:  CreateInvoiceRequest{TotalAmount: "abc"},
			want: "invalid total_amount",
		},
		{
			name: "bad subtotal",
			req:  CreateInvoiceRequest{TotalAmount: "10.00", Subtotal: "x"},
			want: "invalid subtotal",
		},
		{
			name: "bad supplier id",
			req:  CreateInvoiceRequest{TotalAmount: "10.00", SupplierID: "nope"},
			want: "invalid supplier_id",
		},
		{
			name: "bad date",
			req:  CreateInvoiceRequest{TotalAmount: "10.00", InvoiceDate: "03/01/2026"},
			want: "invalid invoice_date",
		},
		{
			name: "bad line total",
			req: CreateInvoiceRequest{
				TotalAmount: "10.00",
				LineItems:   []LineItemInput{{Description: "x", Quantity: "1", UnitPrice: "1", LineTotal: "oops"}},
			},
			want: "invalid line_total on line 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateInvoice(context.Background(), tt.req, nil)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCreateInvoiceWritesAuditLog(t *testing.T) {
	auditRepo := &fakeAuditRepo{}
	svc := newInvoiceServiceForTest(newFakeInvoiceRepo(), newFakeValidationRepo(), auditRepo, nil)

	userID := uuid.New()
	_, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		InvoiceNumber: "INV-AUDIT",
		TotalAmount:   "5.00",
	}, &userID)
	require.NoError(t, err)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, model.ActionCreateInvoice, auditRepo.entries[0].Action)
	assert.Equal(t, "INV-AUDIT", auditRepo.entries[0].EntityName)
	require.NotNil(t, auditRepo.entries[0].UserID)
	assert.Equal(t, userID, *auditRepo.entries[0].UserID)
}

func TestSubmitInvoiceTransitions(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		wantErr    string
		wantStatus string
	}{
		{name: "draft submits", status: model.InvoiceStatusDraft, wantStatus: model.InvoiceStatusPendingApproval},
		{name: "pending cannot resubmit", status: model.InvoiceStatusPendingApproval, wantErr: "only draft invoices"},
		{name: "approved cannot submit", status: model.InvoiceStatusApproved, wantErr: "only draft invoices"},
		{name: "rejected cannot submit", status: model.InvoiceStatusRejected, wantErr: "only draft invoices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoiceRepo := newFakeInvoiceRepo()
			events := &fakePublisher{}
			svc := newInvoiceServiceForTest(invoiceRepo, newFakeValidationRepo(), &fakeAuditRepo{}, events)

			invoice := &model.Invoice{ID: uuid.New(), InvoiceNumber: "INV-SUB", Status: tt.status}
			invoiceRepo.invoices[invoice.ID] = invoice

			resp, err := svc.SubmitInvoice(context.Background(), invoice.ID.String(), nil)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.Empty(t, events.events)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantStatus, invoice.Status)
			require.Len(t, events.events, 1)
			assert.Equal(t, EventInvoiceSubmitted, events.events[0].name)
		})
	}
}

func TestSubmitInvoiceAllowedWithUnresolvedFindings(t *testing.T) {
	invoiceRepo := newFakeInvoiceRepo()
	svc := newInvoiceServiceForTest(invoiceRepo, newFakeValidationRepo(), &fakeAuditRepo{}, nil)

	invoice := &model.Invoice{
		ID:                  uuid.New(),
		InvoiceNumber:       "INV-FLAGGED",
		Status:              model.InvoiceStatusDraft,
		HasValidationIssues: true,
	}
	invoiceRepo.invoices[invoice.ID] = invoice

	resp, err := svc.SubmitInvoice(context.Background(), invoice.ID.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPendingApproval, resp.Status)
	assert.True(t, resp.HasValidationIssues, "findings travel with the invoice into review")
}

func TestListInvoicesSearchesBySupplierName(t *testing.T) {
	invoiceRepo := newFakeInvoiceRepo()
	acme := &model.Invoice{ID: uuid.New(), InvoiceNumber: "INV-100", Supplier: &model.Supplier{Name: "Acme Corp"}}
	globex := &model.Invoice{ID: uuid.New(), InvoiceNumber: "INV-200", Supplier: &model.Supplier{Name: "Globex"}}
	invoiceRepo.invoices[acme.ID] = acme
	invoiceRepo.invoices[globex.ID] = globex

	svc := newInvoiceServiceForTest(invoiceRepo, newFakeValidationRepo(), &fakeAuditRepo{}, nil)

	invoices, total, err := svc.ListInvoices(context.Background(), InvoiceFilter{Search: "acme"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-100", invoices[0].InvoiceNumber)
	assert.Equal(t, "Acme Corp", invoices[0].SupplierName)

	invoices, total, err = svc.ListInvoices(context.Background(), InvoiceFilter{Search: "inv-200"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-200", invoices[0].InvoiceNumber)
}

func TestInvoiceLifecycleWithoutEventPublisher(t *testing.T) {
	// The publisher is optional wiring; create and submit must work without one.
	invoiceRepo := newFakeInvoiceRepo()
	svc := newInvoiceServiceForTest(invoiceRepo, newFakeValidationRepo(), &fakeAuditRepo{}, nil)

	req := CreateInvoiceRequest{
		InvoiceNumber: "INV-NO-EVENTS",
		SupplierID:    uuid.New().String(),
		InvoiceDate:   "2026-03-05",
		TotalAmount:   "10.00",
	}

	detail, err := svc.CreateInvoice(context.Background(), req, nil)
	require.NoError(t, err)

	resp, err := svc.SubmitInvoice(context.Background(), detail.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPendingApproval, resp.Status)
}

func TestExportCSV(t *testing.T) {
	invoiceRepo := newFakeInvoiceRepo()
	supplier := model.Supplier{Name: "Acme Corp"}
	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	invoiceRepo.exportList = []model.Invoice{
		{
			InvoiceNumber: "INV-EXP-1",
			Supplier:      &supplier,
			InvoiceDate:   &date,
			Subtotal:      decimal.RequireFromString("90.00"),
			TaxAmount:     decimal.RequireFromString("9.00"),
			TotalAmount:   decimal.RequireFromString("99.00"),
			Currency:      "USD",
			Status:        model.InvoiceStatusApproved,
		},
		{
			InvoiceNumber:       "INV-EXP-2",
			TotalAmount:         decimal.RequireFromString("10.50"),
			Currency:            "EUR",
			Status:              model.InvoiceStatusDraft,
			HasValidationIssues: true,
			IsDuplicate:         true,
		},
	}

	svc := newInvoiceServiceForTest(invoiceRepo, newFakeValidationRepo(), &fakeAuditRepo{}, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), "", &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"invoice_number", "supplier", "invoice_date", "due_date",
		"subtotal", "tax_amount", "total_amount", "currency",
		"status", "has_validation_issues", "is_duplicate",
	}, records[0])

	assert.Equal(t, []string{"INV-EXP-1", "Acme Corp", "2026-02-10", "", "90.00", "9.00", "99.00", "USD", "approved", "false", "false"}, records[1])
	assert.Equal(t, []string{"INV-EXP-2", "", "", "", "0.00", "0.00", "10.50", "EUR", "draft", "true", "true"}, records[2])
}

func TestCreateInvoiceFailsWhenCreateFails(t *testing.T) {
	invoiceRepo := newFakeInvoiceRepo()
	invoiceRepo.createErr = errBoom
	events := &fakePublisher{}
	svc := newInvoiceServiceForTest(invoiceRepo, newFakeValidationRepo(), &fakeAuditRepo{}, events)

	_, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{TotalAmount: "1.00"}, nil)
	assert.ErrorContains(t, err, "failed to create invoice")
	assert.Empty(t, events.events, "no event when the transaction fails")
}
