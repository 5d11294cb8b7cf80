package service

import (
	"context"
	"errors"
	"strings"

	"invoicehub/internal/model"
	"invoicehub/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Hand-rolled in-memory fakes for the repository interfaces. The fake tx
// manager just runs the function; transactional behavior itself is covered
// by the real TransactionManager against a database.

type fakeTxManager struct {
	err error
}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type fakeInvoiceRepo struct {
	invoices       map[uuid.UUID]*model.Invoice
	duplicateCount int64
	createErr      error
	exportList     []model.Invoice
	statusCounts   map[string]int64
	withIssues     int64
	duplicates     int64
	approvedTotal  decimal.Decimal
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (f *fakeInvoiceRepo) Create(_ context.Context, invoice *model.Invoice) error {
	if f.createErr != nil {
		return f.createErr
	}
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeInvoiceRepo) CreateLineItems(_ context.Context, items []model.InvoiceLineItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		if inv, ok := f.invoices[items[i].InvoiceID]; ok {
			inv.LineItems = append(inv.LineItems, items[i])
		}
	}
	return nil
}

func (f *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (f *fakeInvoiceRepo) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeInvoiceRepo) List(_ context.Context, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	result := make([]model.Invoice, 0, len(f.invoices))
	for _, inv := range f.invoices {
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !invoiceMatchesSearch(inv, filter.Search) {
			continue
		}
		result = append(result, *inv)
	}
	return result, int64(len(result)), nil
}

// invoiceMatchesSearch mirrors the repository predicate: case-insensitive
// substring match on the invoice number or the supplier name.
func invoiceMatchesSearch(inv *model.Invoice, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(inv.InvoiceNumber), needle) {
		return true
	}
	return inv.Supplier != nil && strings.Contains(strings.ToLower(inv.Supplier.Name), needle)
}

func (f *fakeInvoiceRepo) ListForExport(_ context.Context, _ string) ([]model.Invoice, error) {
	return f.exportList, nil
}

func (f *fakeInvoiceRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	inv, ok := f.invoices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.Status = status
	return nil
}

func (f *fakeInvoiceRepo) SetValidationIssues(_ context.Context, id uuid.UUID, hasIssues bool) error {
	inv, ok := f.invoices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.HasValidationIssues = hasIssues
	return nil
}

func (f *fakeInvoiceRepo) MarkDuplicate(_ context.Context, id uuid.UUID) error {
	inv, ok := f.invoices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.IsDuplicate = true
	return nil
}

func (f *fakeInvoiceRepo) CountByNumberExcluding(_ context.Context, _ string, _ uuid.UUID) (int64, error) {
	return f.duplicateCount, nil
}

func (f *fakeInvoiceRepo) StatusCounts(_ context.Context) (map[string]int64, error) {
	return f.statusCounts, nil
}

func (f *fakeInvoiceRepo) FlagCounts(_ context.Context) (int64, int64, error) {
	return f.withIssues, f.duplicates, nil
}

func (f *fakeInvoiceRepo) ApprovedTotal(_ context.Context) (decimal.Decimal, error) {
	return f.approvedTotal, nil
}

type fakeValidationRepo struct {
	findings map[uuid.UUID]*model.InvoiceValidation
}

func newFakeValidationRepo() *fakeValidationRepo {
	return &fakeValidationRepo{findings: make(map[uuid.UUID]*model.InvoiceValidation)}
}

func (f *fakeValidationRepo) CreateBatch(_ context.Context, findings []model.InvoiceValidation) error {
	for i := range findings {
		if findings[i].ID == uuid.Nil {
			findings[i].ID = uuid.New()
		}
		stored := findings[i]
		f.findings[stored.ID] = &stored
	}
	return nil
}

func (f *fakeValidationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InvoiceValidation, error) {
	finding, ok := f.findings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *finding
	return &copied, nil
}

func (f *fakeValidationRepo) ListByInvoice(_ context.Context, invoiceID uuid.UUID) ([]model.InvoiceValidation, error) {
	var result []model.InvoiceValidation
	for _, finding := range f.findings {
		if finding.InvoiceID == invoiceID {
			result = append(result, *finding)
		}
	}
	return result, nil
}

func (f *fakeValidationRepo) MarkResolved(_ context.Context, id uuid.UUID) error {
	finding, ok := f.findings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	finding.Resolved = true
	return nil
}

func (f *fakeValidationRepo) CountUnresolved(_ context.Context, invoiceID uuid.UUID) (int64, error) {
	var count int64
	for _, finding := range f.findings {
		if finding.InvoiceID == invoiceID && !finding.Resolved {
			count++
		}
	}
	return count, nil
}

type fakeApprovalRepo struct {
	approvals []model.InvoiceApproval
	createErr error
}

func (f *fakeApprovalRepo) Create(_ context.Context, approval *model.InvoiceApproval) error {
	if f.createErr != nil {
		return f.createErr
	}
	if approval.ID == uuid.Nil {
		approval.ID = uuid.New()
	}
	f.approvals = append(f.approvals, *approval)
	return nil
}

func (f *fakeApprovalRepo) ListByInvoice(_ context.Context, invoiceID uuid.UUID) ([]model.InvoiceApproval, error) {
	var result []model.InvoiceApproval
	for _, a := range f.approvals {
		if a.InvoiceID == invoiceID {
			result = append(result, a)
		}
	}
	return result, nil
}

type fakeAuditRepo struct {
	entries   []model.AuditLog
	createErr error
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	if f.createErr != nil {
		return f.createErr
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _, _ int) ([]model.AuditLog, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

type publishedEvent struct {
	name    string
	payload interface{}
}

type fakePublisher struct {
	events []publishedEvent
}

func (f *fakePublisher) Publish(event string, payload interface{}) {
	f.events = append(f.events, publishedEvent{name: event, payload: payload})
}

var errBoom = errors.New("boom")
