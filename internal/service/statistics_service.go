package service

import (
	"context"
	"fmt"

	"invoicehub/internal/model"
	"invoicehub/internal/repository"
)

// OverviewResponse summarizes the invoice pipeline for the dashboard
type OverviewResponse struct {
	TotalInvoices        int64            `json:"total_invoices"`
	ByStatus             map[string]int64 `json:"by_status"`
	WithValidationIssues int64            `json:"with_validation_issues"`
	Duplicates           int64            `json:"duplicates"`
	PendingApproval      int64            `json:"pending_approval"`
	ApprovedTotal        string           `json:"approved_total"`
}

type StatisticsService interface {
	GetOverview(ctx context.Context) (OverviewResponse, error)
}

type statisticsService struct {
	invoiceRepo repository.InvoiceRepository
}

func NewStatisticsService(invoiceRepo repository.InvoiceRepository) StatisticsService {
	return &statisticsService{invoiceRepo: invoiceRepo}
}

func (s *statisticsService) GetOverview(ctx context.Context) (OverviewResponse, error) {
	counts, err := s.invoiceRepo.StatusCounts(ctx)
	if err != nil {
		return OverviewResponse{}, fmt.Errorf("failed to count invoices by status: %w", err)
	}

	withIssues, duplicates, err := s.invoiceRepo.FlagCounts(ctx)
	if err != nil {
		return OverviewResponse{}, fmt.Errorf("failed to count flagged invoices: %w", err)
	}

	approvedTotal, err := s.invoiceRepo.ApprovedTotal(ctx)
	if err != nil {
		return OverviewResponse{}, fmt.Errorf("failed to sum approved invoices: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return OverviewResponse{
		TotalInvoices:        total,
		ByStatus:             counts,
		WithValidationIssues: withIssues,
		Duplicates:           duplicates,
		PendingApproval:      counts[model.InvoiceStatusPendingApproval],
		ApprovedTotal:        approvedTotal.StringFixed(4),
	}, nil
}
