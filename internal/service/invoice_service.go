package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"invoicehub/internal/model"
	"invoicehub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const timeFormat = time.RFC3339
const dateFormat = "2006-01-02"

// Invoice lifecycle events broadcast over the websocket hub
const (
	EventInvoiceCreated   = "invoice.created"
	EventInvoiceSubmitted = "invoice.submitted"
	EventInvoiceApproved  = "invoice.approved"
	EventInvoiceRejected  = "invoice.rejected"
)

// EventPublisher pushes domain events to connected clients. Implementations
// must not block.
type EventPublisher interface {
	Publish(event string, payload interface{})
}

// --- DTOs ---

type LineItemInput struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity" binding:"required"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	LineTotal   string `json:"line_total" binding:"required"`
	TaxRate     string `json:"tax_rate"`
}

type CreateInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number"`
	SupplierID    string          `json:"supplier_id"`
	POID          string          `json:"po_id"`
	InvoiceDate   string          `json:"invoice_date"` // YYYY-MM-DD
	DueDate       string          `json:"due_date"`     // YYYY-MM-DD
	Subtotal      string          `json:"subtotal"`
	TaxAmount     string          `json:"tax_amount"`
	TotalAmount   string          `json:"total_amount" binding:"required"`
	Currency      string          `json:"currency"`
	FileType      string          `json:"file_type" binding:"omitempty,oneof=manual upload"`
	Notes         string          `json:"notes"`
	LineItems     []LineItemInput `json:"line_items"`
}

type InvoiceFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

type LineItemResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    string  `json:"quantity"`
	UnitPrice   string  `json:"unit_price"`
	LineTotal   string  `json:"line_total"`
	TaxRate     *string `json:"tax_rate"`
}

type SupplierRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	TaxID string `json:"tax_id"`
}

type PurchaseOrderRef struct {
	ID       string `json:"id"`
	PONumber string `json:"po_number"`
	Status   string `json:"status"`
}

type ApprovalResponse struct {
	ID            string  `json:"id"`
	InvoiceID     string  `json:"invoice_id"`
	Status        string  `json:"status"`
	ApproverEmail string  `json:"approver_email"`
	ApprovedAt    *string `json:"approved_at"`
	Comments      string  `json:"comments"`
	CreatedAt     string  `json:"created_at"`
}

type InvoiceResponse struct {
	ID                  string  `json:"id"`
	InvoiceNumber       string  `json:"invoice_number"`
	SupplierID          *string `json:"supplier_id"`
	SupplierName        string  `json:"supplier_name,omitempty"`
	POID                *string `json:"po_id"`
	InvoiceDate         *string `json:"invoice_date"`
	DueDate             *string `json:"due_date"`
	Subtotal            string  `json:"subtotal"`
	TaxAmount           string  `json:"tax_amount"`
	TotalAmount         string  `json:"total_amount"`
	Currency            string  `json:"currency"`
	Status              string  `json:"status"`
	HasValidationIssues bool    `json:"has_validation_issues"`
	IsDuplicate         bool    `json:"is_duplicate"`
	Notes               string  `json:"notes"`
	CreatedAt           string  `json:"created_at"`
}

// InvoiceDetailResponse carries the invoice with every joined relation the
// detail screen needs in one round trip.
type InvoiceDetailResponse struct {
	InvoiceResponse
	Supplier      *SupplierRef       `json:"supplier,omitempty"`
	PurchaseOrder *PurchaseOrderRef  `json:"purchase_order,omitempty"`
	LineItems     []LineItemResponse `json:"line_items"`
	Validations   []FindingResponse  `json:"validations"`
	Approvals     []ApprovalResponse `json:"approvals"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest, userID *uuid.UUID) (InvoiceDetailResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceDetailResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
	SubmitInvoice(ctx context.Context, id string, userID *uuid.UUID) (InvoiceResponse, error)
	ExportCSV(ctx context.Context, status string, w io.Writer) error
}

type invoiceService struct {
	invoiceRepo    repository.InvoiceRepository
	validationRepo repository.ValidationRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
	events         EventPublisher
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	validationRepo repository.ValidationRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:    invoiceRepo,
		validationRepo: validationRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
		events:         events,
	}
}

// --- Implementation ---

// CreateInvoice persists the invoice, its line items and its validation
// findings in a single transaction. Line item totals are stored exactly as
// submitted; the server never recomputes quantity * unit_price.
func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest, userID *uuid.UUID) (InvoiceDetailResponse, error) {
	subtotal, err := parseAmount(req.Subtotal, "subtotal")
	if err != nil {
		return InvoiceDetailResponse{}, err
	}
	taxAmount, err := parseAmount(req.TaxAmount, "tax_amount")
	if err != nil {
		return InvoiceDetailResponse{}, err
	}
	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return InvoiceDetailResponse{}, fmt.Errorf("invalid total_amount: %w", err)
	}

	supplierID, err := parseOptionalUUID(req.SupplierID, "supplier_id")
	if err != nil {
		return InvoiceDetailResponse{}, err
	}
	poID, err := parseOptionalUUID(req.POID, "po_id")
	if err != nil {
		return InvoiceDetailResponse{}, err
	}
	invoiceDate, err := parseOptionalDate(req.InvoiceDate, "invoice_date")
	if err != nil {
		return InvoiceDetailResponse{}, err
	}
	dueDate, err := parseOptionalDate(req.DueDate, "due_date")
	if err != nil {
		return InvoiceDetailResponse{}, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	fileType := req.FileType
	if fileType == "" {
		fileType = model.FileTypeManual
	}

	invoice := model.Invoice{
		InvoiceNumber: req.InvoiceNumber,
		SupplierID:    supplierID,
		POID:          poID,
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
		Subtotal:      subtotal,
		TaxAmount:     taxAmount,
		TotalAmount:   totalAmount,
		Currency:      currency,
		Status:        model.InvoiceStatusDraft,
		FileType:      fileType,
		Notes:         req.Notes,
	}

	items := make([]model.InvoiceLineItem, 0, len(req.LineItems))
	for i, in := range req.LineItems {
		if in.Description == "" {
			continue
		}
		qty, qErr := decimal.NewFromString(in.Quantity)
		if qErr != nil {
			return InvoiceDetailResponse{}, fmt.Errorf("invalid quantity on line %d: %w", i+1, qErr)
		}
		unitPrice, pErr := decimal.NewFromString(in.UnitPrice)
		if pErr != nil {
			return InvoiceDetailResponse{}, fmt.Errorf("invalid unit_price on line %d: %w", i+1, pErr)
		}
		lineTotal, tErr := decimal.NewFromString(in.LineTotal)
		if tErr != nil {
			return InvoiceDetailResponse{}, fmt.Errorf("invalid line_total on line %d: %w", i+1, tErr)
		}
		item := model.InvoiceLineItem{
			Description: in.Description,
			Quantity:    qty,
			UnitPrice:   unitPrice,
			LineTotal:   lineTotal,
		}
		if in.TaxRate != "" {
			rate, rErr := decimal.NewFromString(in.TaxRate)
			if rErr != nil {
				return InvoiceDetailResponse{}, fmt.Errorf("invalid tax_rate on line %d: %w", i+1, rErr)
			}
			item.TaxRate = &rate
		}
		items = append(items, item)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.invoiceRepo.Create(txCtx, &invoice); createErr != nil {
			return fmt.Errorf("failed to create invoice: %w", createErr)
		}

		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		if itemsErr := s.invoiceRepo.CreateLineItems(txCtx, items); itemsErr != nil {
			return fmt.Errorf("failed to create line items: %w", itemsErr)
		}

		s.runValidations(txCtx, &invoice)

		details, _ := json.Marshal(map[string]interface{}{
			"invoice_number": invoice.InvoiceNumber,
			"total_amount":   invoice.TotalAmount.String(),
			"line_items":     len(items),
		})
		audit := model.AuditLog{
			UserID:     userID,
			Action:     model.ActionCreateInvoice,
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
		return InvoiceDetailResponse{}, err
	}

	s.publish(EventInvoiceCreated, map[string]interface{}{
		"invoice_id":            invoice.ID.String(),
		"invoice_number":        invoice.InvoiceNumber,
		"status":                invoice.Status,
		"has_validation_issues": invoice.HasValidationIssues,
	})

	reloaded, err := s.invoiceRepo.FindByIDWithRelations(ctx, invoice.ID)
	if err != nil {
		return InvoiceDetailResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}
	return toInvoiceDetailResponse(*reloaded), nil
}

// runValidations evaluates the validation rules and persists findings and
// flags. Persistence failures are logged and swallowed: validation is
// best-effort and must never undo a created invoice.
func (s *invoiceService) runValidations(ctx context.Context, invoice *model.Invoice) {
	duplicates, err := s.invoiceRepo.CountByNumberExcluding(ctx, invoice.InvoiceNumber, invoice.ID)
	if err != nil {
		log.Warn().Err(err).Str("invoice_id", invoice.ID.String()).Msg("duplicate check failed")
		duplicates = 0
	}

	findings, isDuplicate := EvaluateInvoice(invoice, duplicates)

	if isDuplicate {
		if err := s.invoiceRepo.MarkDuplicate(ctx, invoice.ID); err != nil {
			log.Warn().Err(err).Str("invoice_id", invoice.ID.String()).Msg("failed to mark invoice duplicate")
		} else {
			invoice.IsDuplicate = true
		}
	}

	if len(findings) == 0 {
		return
	}

	if err := s.validationRepo.CreateBatch(ctx, findings); err != nil {
		log.Warn().Err(err).Str("invoice_id", invoice.ID.String()).Msg("failed to persist validation findings")
		return
	}
	if err := s.invoiceRepo.SetValidationIssues(ctx, invoice.ID, true); err != nil {
		log.Warn().Err(err).Str("invoice_id", invoice.ID.String()).Msg("failed to flag validation issues")
		return
	}
	invoice.HasValidationIssues = true
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceDetailResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceDetailResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByIDWithRelations(ctx, invoiceID)
	if err != nil {
		return InvoiceDetailResponse{}, fmt.Errorf("invoice not found: %w", err)
	}
	return toInvoiceDetailResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repository.InvoiceListFilter{
		Status: filter.Status,
		Search: filter.Search,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

// SubmitInvoice moves a draft to pending_approval. Unresolved validation
// findings do not block submission; reviewers see them on the approval
// screen instead.
func (s *invoiceService) SubmitInvoice(ctx context.Context, id string, userID *uuid.UUID) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		invoice, findErr = s.invoiceRepo.FindByID(txCtx, invoiceID)
		if findErr != nil {
			return fmt.Errorf("invoice not found: %w", findErr)
		}

		if invoice.Status != model.InvoiceStatusDraft {
			return fmt.Errorf("only draft invoices can be submitted, current status is %s", invoice.Status)
		}

		if updateErr := s.invoiceRepo.UpdateStatus(txCtx, invoiceID, model.InvoiceStatusPendingApproval); updateErr != nil {
			return fmt.Errorf("failed to submit invoice: %w", updateErr)
		}
		invoice.Status = model.InvoiceStatusPendingApproval

		audit := model.AuditLog{
			UserID:     userID,
			Action:     model.ActionSubmitInvoice,
			EntityID:   invoice.ID.String(),
			EntityName: invoice.InvoiceNumber,
		}
		if auditErr := s.auditRepo.Create(txCtx, &audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.publish(EventInvoiceSubmitted, map[string]interface{}{
		"invoice_id":     invoice.ID.String(),
		"invoice_number": invoice.InvoiceNumber,
		"status":         invoice.Status,
	})

	return toInvoiceResponse(*invoice), nil
}

// ExportCSV streams all invoices matching the status filter as CSV
func (s *invoiceService) ExportCSV(ctx context.Context, status string, w io.Writer) error {
	invoices, err := s.invoiceRepo.ListForExport(ctx, status)
	if err != nil {
		return fmt.Errorf("failed to fetch invoices for export: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{
		"invoice_number", "supplier", "invoice_date", "due_date",
		"subtotal", "tax_amount", "total_amount", "currency",
		"status", "has_validation_issues", "is_duplicate",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, inv := range invoices {
		supplierName := ""
		if inv.Supplier != nil {
			supplierName = inv.Supplier.Name
		}
		invoiceDate := ""
		if inv.InvoiceDate != nil {
			invoiceDate = inv.InvoiceDate.Format(dateFormat)
		}
		dueDate := ""
		if inv.DueDate != nil {
			dueDate = inv.DueDate.Format(dateFormat)
		}

		record := []string{
			inv.InvoiceNumber,
			supplierName,
			invoiceDate,
			dueDate,
			inv.Subtotal.StringFixed(2),
			inv.TaxAmount.StringFixed(2),
			inv.TotalAmount.StringFixed(2),
			inv.Currency,
			inv.Status,
			fmt.Sprintf("%t", inv.HasValidationIssues),
			fmt.Sprintf("%t", inv.IsDuplicate),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (s *invoiceService) publish(event string, payload interface{}) {
	if s.events != nil {
		s.events.Publish(event, payload)
	}
}

// --- Helpers ---

func parseAmount(value, field string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	return amount, nil
}

func parseOptionalUUID(value, field string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	return &parsed, nil
}

func parseOptionalDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateFormat, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s, expected YYYY-MM-DD: %w", field, err)
	}
	return &parsed, nil
}

// --- Mapping ---

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:                  inv.ID.String(),
		InvoiceNumber:       inv.InvoiceNumber,
		Subtotal:            inv.Subtotal.StringFixed(4),
		TaxAmount:           inv.TaxAmount.StringFixed(4),
		TotalAmount:         inv.TotalAmount.StringFixed(4),
		Currency:            inv.Currency,
		Status:              inv.Status,
		HasValidationIssues: inv.HasValidationIssues,
		IsDuplicate:         inv.IsDuplicate,
		Notes:               inv.Notes,
		CreatedAt:           inv.CreatedAt.Format(timeFormat),
	}

	if inv.SupplierID != nil {
		s := inv.SupplierID.String()
		resp.SupplierID = &s
	}
	if inv.Supplier != nil {
		resp.SupplierName = inv.Supplier.Name
	}
	if inv.POID != nil {
		s := inv.POID.String()
		resp.POID = &s
	}
	if inv.InvoiceDate != nil {
		s := inv.InvoiceDate.Format(dateFormat)
		resp.InvoiceDate = &s
	}
	if inv.DueDate != nil {
		s := inv.DueDate.Format(dateFormat)
		resp.DueDate = &s
	}

	return resp
}

func toInvoiceDetailResponse(inv model.Invoice) InvoiceDetailResponse {
	detail := InvoiceDetailResponse{
		InvoiceResponse: toInvoiceResponse(inv),
		LineItems:       make([]LineItemResponse, 0, len(inv.LineItems)),
		Validations:     make([]FindingResponse, 0, len(inv.Validations)),
		Approvals:       make([]ApprovalResponse, 0, len(inv.Approvals)),
	}

	if inv.Supplier != nil {
		detail.Supplier = &SupplierRef{
			ID:    inv.Supplier.ID.String(),
			Name:  inv.Supplier.Name,
			Email: inv.Supplier.Email,
			TaxID: inv.Supplier.TaxID,
		}
	}
	if inv.PurchaseOrder != nil {
		detail.PurchaseOrder = &PurchaseOrderRef{
			ID:       inv.PurchaseOrder.ID.String(),
			PONumber: inv.PurchaseOrder.PONumber,
			Status:   inv.PurchaseOrder.Status,
		}
	}

	for _, item := range inv.LineItems {
		li := LineItemResponse{
			ID:          item.ID.String(),
			Description: item.Description,
			Quantity:    item.Quantity.StringFixed(4),
			UnitPrice:   item.UnitPrice.StringFixed(4),
			LineTotal:   item.LineTotal.StringFixed(4),
		}
		if item.TaxRate != nil {
			rate := item.TaxRate.StringFixed(4)
			li.TaxRate = &rate
		}
		detail.LineItems = append(detail.LineItems, li)
	}

	for _, finding := range inv.Validations {
		detail.Validations = append(detail.Validations, toFindingResponse(finding))
	}

	for _, approval := range inv.Approvals {
		detail.Approvals = append(detail.Approvals, toApprovalResponse(approval))
	}

	return detail
}

func toApprovalResponse(a model.InvoiceApproval) ApprovalResponse {
	resp := ApprovalResponse{
		ID:            a.ID.String(),
		InvoiceID:     a.InvoiceID.String(),
		Status:        a.Status,
		ApproverEmail: a.ApproverEmail,
		Comments:      a.Comments,
		CreatedAt:     a.CreatedAt.Format(timeFormat),
	}
	if a.ApprovedAt != nil {
		s := a.ApprovedAt.Format(timeFormat)
		resp.ApprovedAt = &s
	}
	return resp
}
