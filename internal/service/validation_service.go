package service

import (
	"context"
	"encoding/json"
	"fmt"

	"invoicehub/internal/model"
	"invoicehub/internal/repository"

	"github.com/google/uuid"
)

// Validation finding messages, matched by the frontend
const (
	MsgInvoiceNumberRequired = "Invoice number is required"
	MsgSupplierNotSpecified  = "Supplier not specified"
	MsgDateNotSpecified      = "Invoice date not specified"
	MsgDuplicateDetected     = "Duplicate invoice number detected"
)

// EvaluateInvoice runs every validation rule against a newly created
// invoice and returns the findings plus the duplicate flag. Rules are
// independent; all of them are evaluated, none short-circuits.
// duplicateCount is the number of other invoices sharing the same
// invoice number.
func EvaluateInvoice(inv *model.Invoice, duplicateCount int64) ([]model.InvoiceValidation, bool) {
	var findings []model.InvoiceValidation

	if inv.InvoiceNumber == "" {
		findings = append(findings, model.InvoiceValidation{
			InvoiceID:      inv.ID,
			ValidationType: model.ValidationTypeMissingData,
			Severity:       model.SeverityError,
			Message:        MsgInvoiceNumberRequired,
			FieldName:      "invoice_number",
		})
	}

	if inv.SupplierID == nil {
		findings = append(findings, model.InvoiceValidation{
			InvoiceID:      inv.ID,
			ValidationType: model.ValidationTypeMissingData,
			Severity:       model.SeverityWarning,
			Message:        MsgSupplierNotSpecified,
			FieldName:      "supplier_id",
		})
	}

	if inv.InvoiceDate == nil {
		findings = append(findings, model.InvoiceValidation{
			InvoiceID:      inv.ID,
			ValidationType: model.ValidationTypeMissingData,
			Severity:       model.SeverityWarning,
			Message:        MsgDateNotSpecified,
			FieldName:      "invoice_date",
		})
	}

	isDuplicate := duplicateCount > 0
	if isDuplicate {
		findings = append(findings, model.InvoiceValidation{
			InvoiceID:      inv.ID,
			ValidationType: model.ValidationTypeDuplicate,
			Severity:       model.SeverityError,
			Message:        MsgDuplicateDetected,
			FieldName:      "invoice_number",
		})
	}

	return findings, isDuplicate
}

// --- DTOs ---

type FindingResponse struct {
	ID             string `json:"id"`
	InvoiceID      string `json:"invoice_id"`
	ValidationType string `json:"validation_type"`
	Severity       string `json:"severity"`
	Message        string `json:"message"`
	FieldName      string `json:"field_name"`
	Resolved       bool   `json:"resolved"`
	CreatedAt      string `json:"created_at"`
}

// ResolveResult reports the finding just resolved and the invoice's
// resulting validation state.
type ResolveResult struct {
	Finding             FindingResponse `json:"finding"`
	UnresolvedRemaining int64           `json:"unresolved_remaining"`
	HasValidationIssues bool            `json:"has_validation_issues"`
}

// --- Interface ---

type ValidationService interface {
	ResolveFinding(ctx context.Context, id string, userID *uuid.UUID) (ResolveResult, error)
}

type validationService struct {
	validationRepo repository.ValidationRepository
	invoiceRepo    repository.InvoiceRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
}

func NewValidationService(
	validationRepo repository.ValidationRepository,
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ValidationService {
	return &validationService{
		validationRepo: validationRepo,
		invoiceRepo:    invoiceRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
	}
}

// ResolveFinding marks a finding resolved, then recounts unresolved
// findings for the invoice inside the same transaction. When zero remain,
// has_validation_issues is cleared. The recount-and-clear is transactional
// so concurrent resolutions cannot clear the flag while an unresolved
// finding still exists.
func (s *validationService) ResolveFinding(ctx context.Context, id string, userID *uuid.UUID) (ResolveResult, error) {
	findingID, err := uuid.Parse(id)
	if err != nil {
		return ResolveResult{}, fmt.Errorf("invalid validation id: %w", err)
	}

	var result ResolveResult
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		finding, findErr := s.validationRepo.FindByID(txCtx, findingID)
		if findErr != nil {
			return fmt.Errorf("validation finding not found: %w", findErr)
		}

		if !finding.Resolved {
			if resolveErr := s.validationRepo.MarkResolved(txCtx, findingID); resolveErr != nil {
				return fmt.Errorf("failed to resolve finding: %w", resolveErr)
			}
		}
		finding.Resolved = true

		remaining, countErr := s.validationRepo.CountUnresolved(txCtx, finding.InvoiceID)
		if countErr != nil {
			return fmt.Errorf("failed to count unresolved findings: %w", countErr)
		}

		hasIssues := remaining > 0
		if !hasIssues {
			if clearErr := s.invoiceRepo.SetValidationIssues(txCtx, finding.InvoiceID, false); clearErr != nil {
				return fmt.Errorf("failed to clear validation flag: %w", clearErr)
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"invoice_id":           finding.InvoiceID.String(),
			"validation_type":      finding.ValidationType,
			"field_name":           finding.FieldName,
			"unresolved_remaining": remaining,
		})
		audit := model.AuditLog{
			UserID:     userID,
			Action:     model.ActionResolveValidation,
			EntityID:   finding.ID.String(),
			EntityName: finding.Message,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Create(txCtx, &audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		result = ResolveResult{
			Finding:             toFindingResponse(*finding),
			UnresolvedRemaining: remaining,
			HasValidationIssues: hasIssues,
		}
		return nil
	})

	if err != nil {
		return ResolveResult{}, err
	}
	return result, nil
}

func toFindingResponse(f model.InvoiceValidation) FindingResponse {
	return FindingResponse{
		ID:             f.ID.String(),
		InvoiceID:      f.InvoiceID.String(),
		ValidationType: f.ValidationType,
		Severity:       f.Severity,
		Message:        f.Message,
		FieldName:      f.FieldName,
		Resolved:       f.Resolved,
		CreatedAt:      f.CreatedAt.Format(timeFormat),
	}
}
