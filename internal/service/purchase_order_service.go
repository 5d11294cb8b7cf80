package service

import (
	"context"
	"fmt"

	"invoicehub/internal/model"
	"invoicehub/internal/repository"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreatePurchaseOrderRequest struct {
	PONumber    string `json:"po_number" binding:"required"`
	SupplierID  string `json:"supplier_id"`
	TotalAmount string `json:"total_amount"`
	CreatedDate string `json:"created_date"` // YYYY-MM-DD
}

type PurchaseOrderResponse struct {
	ID           string  `json:"id"`
	PONumber     string  `json:"po_number"`
	SupplierID   *string `json:"supplier_id"`
	SupplierName string  `json:"supplier_name,omitempty"`
	TotalAmount  *string `json:"total_amount"`
	Status       string  `json:"status"`
	CreatedDate  *string `json:"created_date"`
	CreatedAt    string  `json:"created_at"`
}

// --- Interface ---

type PurchaseOrderService interface {
	CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (PurchaseOrderResponse, error)
	ListPurchaseOrders(ctx context.Context, status string, page, limit int) ([]PurchaseOrderResponse, int64, error)
}

type purchaseOrderService struct {
	poRepo repository.PurchaseOrderRepository
}

func NewPurchaseOrderService(poRepo repository.PurchaseOrderRepository) PurchaseOrderService {
	return &purchaseOrderService{poRepo: poRepo}
}

// --- Implementation ---

func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (PurchaseOrderResponse, error) {
	supplierID, err := parseOptionalUUID(req.SupplierID, "supplier_id")
	if err != nil {
		return PurchaseOrderResponse{}, err
	}
	createdDate, err := parseOptionalDate(req.CreatedDate, "created_date")
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	po := model.PurchaseOrder{
		PONumber:    req.PONumber,
		SupplierID:  supplierID,
		Status:      model.POStatusOpen,
		CreatedDate: createdDate,
	}
	if req.TotalAmount != "" {
		amount, amountErr := decimal.NewFromString(req.TotalAmount)
		if amountErr != nil {
			return PurchaseOrderResponse{}, fmt.Errorf("invalid total_amount: %w", amountErr)
		}
		po.TotalAmount = &amount
	}

	if err := s.poRepo.Create(ctx, &po); err != nil {
		return PurchaseOrderResponse{}, fmt.Errorf("failed to create purchase order: %w", err)
	}

	return toPurchaseOrderResponse(po), nil
}

func (s *purchaseOrderService) ListPurchaseOrders(ctx context.Context, status string, page, limit int) ([]PurchaseOrderResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	orders, total, err := s.poRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch purchase orders: %w", err)
	}

	result := make([]PurchaseOrderResponse, 0, len(orders))
	for _, po := range orders {
		result = append(result, toPurchaseOrderResponse(po))
	}
	return result, total, nil
}

// --- Mapping ---

func toPurchaseOrderResponse(po model.PurchaseOrder) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:        po.ID.String(),
		PONumber:  po.PONumber,
		Status:    po.Status,
		CreatedAt: po.CreatedAt.Format(timeFormat),
	}
	if po.SupplierID != nil {
		s := po.SupplierID.String()
		resp.SupplierID = &s
	}
	if po.Supplier != nil {
		resp.SupplierName = po.Supplier.Name
	}
	if po.TotalAmount != nil {
		s := po.TotalAmount.StringFixed(4)
		resp.TotalAmount = &s
	}
	if po.CreatedDate != nil {
		s := po.CreatedDate.Format(dateFormat)
		resp.CreatedDate = &s
	}
	return resp
}
