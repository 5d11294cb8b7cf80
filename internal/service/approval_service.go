package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"invoicehub/internal/model"
	"invoicehub/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type ProcessApprovalRequest struct {
	Action        string `json:"action" binding:"required,oneof=approve reject"`
	ApproverEmail string `json:"approver_email" binding:"required,email"`
	Comments      string `json:"comments"`
}

// ApprovalDecision is returned after an approve/reject action
type ApprovalDecision struct {
	Approval ApprovalResponse `json:"approval"`
	Invoice  InvoiceResponse  `json:"invoice"`
}

// --- Interface ---

type ApprovalService interface {
	ProcessApproval(ctx context.Context, invoiceID string, req ProcessApprovalRequest, userID *uuid.UUID) (ApprovalDecision, error)
	ListApprovals(ctx context.Context, invoiceID string) ([]ApprovalResponse, error)
}

type approvalService struct {
	approvalRepo repository.ApprovalRepository
	invoiceRepo  repository.InvoiceRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	events       EventPublisher
}

func NewApprovalService(
	approvalRepo repository.ApprovalRepository,
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
) ApprovalService {
	return &approvalService{
		approvalRepo: approvalRepo,
		invoiceRepo:  invoiceRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		events:       events,
	}
}

// --- Implementation ---

// ProcessApproval records an approve/reject decision on a pending invoice.
// The approval row and the invoice status update commit in one transaction
// so the audit trail can never disagree with the invoice. Approved and
// rejected are terminal; there is no reopen transition.
func (s *approvalService) ProcessApproval(ctx context.Context, invoiceID string, req ProcessApprovalRequest, userID *uuid.UUID) (ApprovalDecision, error) {
	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return ApprovalDecision{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	if req.ApproverEmail == "" {
		return ApprovalDecision{}, errors.New("approver_email is required")
	}

	var newStatus string
	var auditAction string
	var event string
	switch req.Action {
	case "approve":
		newStatus = model.InvoiceStatusApproved
		auditAction = model.ActionApproveInvoice
		event = EventInvoiceApproved
	case "reject":
		newStatus = model.InvoiceStatusRejected
		auditAction = model.ActionRejectInvoice
		event = EventInvoiceRejected
	default:
		return ApprovalDecision{}, fmt.Errorf("unknown approval action %q", req.Action)
	}

	var invoice *model.Invoice
	var approval model.InvoiceApproval
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		invoice, findErr = s.invoiceRepo.FindByID(txCtx, id)
		if findErr != nil {
			return fmt.Errorf("invoice not found: %w", findErr)
		}

		if invoice.Status != model.InvoiceStatusPendingApproval {
			return fmt.Errorf("invoice is not pending approval, current status is %s", invoice.Status)
		}

		now := time.Now()
		approval = model.InvoiceApproval{
			InvoiceID:     invoice.ID,
			Status:        newStatus,
			ApproverEmail: req.ApproverEmail,
			ApprovedAt:    &now,
			Comments:      req.Comments,
		}
		if createErr := s.approvalRepo.Create(txCtx, &approval); createErr != nil {
			return fmt.Errorf("failed to record approval: %w", createErr)
		}

		if updateErr := s.invoiceRepo.UpdateStatus(txCtx, invoice.ID, newStatus); updateErr != nil {
			return fmt.Errorf("failed to update invoice status: %w", updateErr)
		}
		invoice.Status = newStatus

		details, _ := json.Marshal(map[string]interface{}{
			"approver_email": req.ApproverEmail,
			"decision":       newStatus,
		})
		audit := model.AuditLog{
			UserID:     userID,
			Action:     auditAction,
			EntityID:   invoice.ID.String(),
			EntityName: invoice.InvoiceNumber,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Create(txCtx, &audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return ApprovalDecision{}, err
	}

	if s.events != nil {
		s.events.Publish(event, map[string]interface{}{
			"invoice_id":     invoice.ID.String(),
			"invoice_number": invoice.InvoiceNumber,
			"status":         invoice.Status,
			"approver_email": req.ApproverEmail,
		})
	}

	return ApprovalDecision{
		Approval: toApprovalResponse(approval),
		Invoice:  toInvoiceResponse(*invoice),
	}, nil
}

func (s *approvalService) ListApprovals(ctx context.Context, invoiceID string) ([]ApprovalResponse, error) {
	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice id: %w", err)
	}

	approvals, err := s.approvalRepo.ListByInvoice(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approvals: %w", err)
	}

	result := make([]ApprovalResponse, 0, len(approvals))
	for _, a := range approvals {
		result = append(result, toApprovalResponse(a))
	}
	return result, nil
}
