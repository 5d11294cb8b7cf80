package service

import (
	"context"
	"testing"

	"invoicehub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessApprovalApprove(t *testing.T) {
	invoiceRepo := newFakeInvoiceRepo()
	approvalRepo := &fakeApprovalRepo{}
	auditRepo := &fakeAuditRepo{}
	events := &fakePublisher{}

	invoice := &model.Invoice{ID: uuid.New(), InvoiceNumber: "INV-APP", Status: model.InvoiceStatusPendingApproval}
	invoiceRepo.invoices[invoice.ID] = invoice

	svc := NewApprovalService(approvalRepo, invoiceRepo, auditRepo, &fakeTxManager{}, events)

	userID := uuid.New()
	decision, err := svc.ProcessApproval(context.Background(), invoice.ID.String(), ProcessApprovalRequest{
		Action:        "approve",
		ApproverEmail: "cfo@example.com",
		Comments:      "Looks good",
	}, &userID)
	require.NoError(t, err)

	assert.Equal(t, model.InvoiceStatusApproved, decision.Invoice.Status)
	assert.Equal(t, model.ApprovalApproved, decision.Approval.Status)
	assert.Equal(t, "cfo@example.com", decision.Approval.ApproverEmail)
	assert.NotNil(t, decision.Approval.ApprovedAt)
	assert.Equal(t, model.InvoiceStatusApproved, invoice.Status)

	require.Len(t, approvalRepo.approvals, 1)
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, model.ActionApproveInvoice, auditRepo.entries[0].Action)

	require.Len(t, events.events, 1)
	assert.Equal(t, EventInvoiceApproved, events.events[0].name)
}

func TestProcessApprovalReject(t *testing.T) {
	invoiceRepo := newFakeInvoiceRepo()
	approvalRepo := &fakeApprovalRepo{}
	auditRepo := &fakeAuditRepo{}
	events := &fakePublisher{}

	invoice := &model.Invoice{ID: uuid.New(), InvoiceNumber: "INV-REJ", Status: model.InvoiceStatusPendingApproval}
	invoiceRepo.invoices[invoice.ID] = invoice

	svc := NewApprovalService(approvalRepo, invoiceRepo, auditRepo, &fakeTxManager{}, events)

	decision, err := svc.ProcessApproval(context.Background(), invoice.ID.String(), ProcessApprovalRequest{
		Action:        "reject",
		ApproverEmail: "cfo@example.com",
		Comments:      "Amounts do not match the PO",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, model.InvoiceStatusRejected, decision.Invoice.Status)
	assert.Equal(t, model.ApprovalRejected, decision.Approval.Status)
	assert.Equal(t, model.ActionRejectInvoice, auditRepo.entries[0].Action)
	assert.Equal(t, EventInvoiceRejected, events.events[0].name)
}

func TestProcessApprovalRequiresPendingStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{name: "draft", status: model.InvoiceStatusDraft},
		{name: "already approved", status: model.InvoiceStatusApproved},
		{name: "already rejected", status: model.InvoiceStatusRejected},
		{name: "archived", status: model.InvoiceStatusArchived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoiceRepo := newFakeInvoiceRepo()
			approvalRepo := &fakeApprovalRepo{}
			events := &fakePublisher{}

			invoice := &model.Invoice{ID: uuid.New(), Status: tt.status}
			invoiceRepo.invoices[invoice.ID] = invoice

			svc := NewApprovalService(approvalRepo, invoiceRepo, &fakeAuditRepo{}, &fakeTxManager{}, events)

			_, err := svc.ProcessApproval(context.Background(), invoice.ID.String(), ProcessApprovalRequest{
				Action:        "approve",
				ApproverEmail: "cfo@example.com",
			}, nil)
			assert.ErrorContains(t, err, "not pending approval")
			assert.Empty(t, approvalRepo.approvals, "no approval row on invalid transition")
			assert.Empty(t, events.events)
			assert.Equal(t, tt.status, invoice.Status, "status unchanged")
		})
	}
}

func TestProcessApprovalUnknownAction(t *testing.T) {
	svc := NewApprovalService(&fakeApprovalRepo{}, newFakeInvoiceRepo(), &fakeAuditRepo{}, &fakeTxManager{}, nil)

	_, err := svc.ProcessApproval(context.Background(), uuid.New().String(), ProcessApprovalRequest{
		Action:        "escalate",
		ApproverEmail: "cfo@example.com",
	}, nil)
	assert.ErrorContains(t, err, "unknown approval action")
}

func TestProcessApprovalMissingEmail(t *testing.T) {
	svc := NewApprovalService(&fakeApprovalRepo{}, newFakeInvoiceRepo(), &fakeAuditRepo{}, &fakeTxManager{}, nil)

	_, err := svc.ProcessApproval(context.Background(), uuid.New().String(), ProcessApprovalRequest{
		Action: "approve",
	}, nil)
	assert.ErrorContains(t, err, "approver_email is required")
}

func TestProcessApprovalRollsBackOnApprovalWriteError(t *testing.T) {
	invoiceRepo := newFakeInvoiceRepo()
	approvalRepo := &fakeApprovalRepo{createErr: errBoom}

	invoice := &model.Invoice{ID: uuid.New(), Status: model.InvoiceStatusPendingApproval}
	invoiceRepo.invoices[invoice.ID] = invoice

	svc := NewApprovalService(approvalRepo, invoiceRepo, &fakeAuditRepo{}, &fakeTxManager{}, nil)

	_, err := svc.ProcessApproval(context.Background(), invoice.ID.String(), ProcessApprovalRequest{
		Action:        "approve",
		ApproverEmail: "cfo@example.com",
	}, nil)
	assert.ErrorContains(t, err, "failed to record approval")
}

func TestListApprovals(t *testing.T) {
	approvalRepo := &fakeApprovalRepo{}
	invoiceID := uuid.New()
	approvalRepo.approvals = []model.InvoiceApproval{
		{ID: uuid.New(), InvoiceID: invoiceID, Status: model.ApprovalRejected, ApproverEmail: "a@example.com"},
		{ID: uuid.New(), InvoiceID: invoiceID, Status: model.ApprovalApproved, ApproverEmail: "b@example.com"},
		{ID: uuid.New(), InvoiceID: uuid.New(), Status: model.ApprovalApproved, ApproverEmail: "other@example.com"},
	}

	svc := NewApprovalService(approvalRepo, newFakeInvoiceRepo(), &fakeAuditRepo{}, &fakeTxManager{}, nil)

	approvals, err := svc.ListApprovals(context.Background(), invoiceID.String())
	require.NoError(t, err)
	require.Len(t, approvals, 2)
}
