package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"invoicehub/internal/model"
	"invoicehub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// --- DTOs ---

type OrderItemInput struct {
	CatalogItemID string `json:"catalog_item_id"`
	ItemName      string `json:"item_name" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	Notes         string `json:"notes"`
}

type SubmitOrderRequest struct {
	BusinessID      string           `json:"business_id" binding:"required"`
	CustomerName    string           `json:"customer_name" binding:"required"`
	CustomerEmail   string           `json:"customer_email" binding:"required,email"`
	CustomerPhone   string           `json:"customer_phone"`
	CustomerAddress string           `json:"customer_address"`
	Notes           string           `json:"notes"`
	Items           []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

type OrderItemResponse struct {
	ID            string  `json:"id"`
	CatalogItemID *string `json:"catalog_item_id"`
	ItemName      string  `json:"item_name"`
	Quantity      int     `json:"quantity"`
	Notes         string  `json:"notes"`
}

type CustomerOrderResponse struct {
	ID              string              `json:"id"`
	BusinessID      string              `json:"business_id"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerPhone   string              `json:"customer_phone"`
	CustomerAddress string              `json:"customer_address"`
	Notes           string              `json:"notes"`
	Status          string              `json:"status"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       string              `json:"created_at"`
}

// --- Interface ---

type OrderService interface {
	SubmitOrder(ctx context.Context, req SubmitOrderRequest) (CustomerOrderResponse, error)
	ListOrders(ctx context.Context, businessID string, page, limit int) ([]CustomerOrderResponse, int64, error)
}

type orderService struct {
	orderRepo repository.CustomerOrderRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewOrderService(
	orderRepo repository.CustomerOrderRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		auditRepo: auditRepo,
		txManager: txManager,
	}
}

// --- Implementation ---

// SubmitOrder records a customer order from the public form. The caller is
// anonymous, so the audit entry carries no user id.
func (s *orderService) SubmitOrder(ctx context.Context, req SubmitOrderRequest) (CustomerOrderResponse, error) {
	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		return CustomerOrderResponse{}, fmt.Errorf("invalid business_id: %w", err)
	}
	if len(req.Items) == 0 {
		return CustomerOrderResponse{}, errors.New("order must contain at least one item")
	}

	order := model.CustomerOrder{
		BusinessID:      businessID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Notes:           req.Notes,
		Status:          model.CustomerOrderNew,
	}
	for _, in := range req.Items {
		item := model.CustomerOrderItem{
			ItemName: in.ItemName,
			Quantity: in.Quantity,
			Notes:    in.Notes,
		}
		if in.CatalogItemID != "" {
			catalogID, parseErr := uuid.Parse(in.CatalogItemID)
			if parseErr != nil {
				// A stale catalog reference should not lose the order
				log.Warn().Str("catalog_item_id", in.CatalogItemID).Msg("ignoring malformed catalog item reference")
			} else {
				item.CatalogItemID = &catalogID
			}
		}
		order.Items = append(order.Items, item)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.orderRepo.Create(txCtx, &order); createErr != nil {
			return fmt.Errorf("failed to create customer order: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"business_id":    req.BusinessID,
			"customer_email": req.CustomerEmail,
			"items":          len(order.Items),
		})
		audit := model.AuditLog{
			Action:     model.ActionSubmitCustomerOrder,
			EntityID:   order.ID.String(),
			EntityName: req.CustomerName,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Create(txCtx, &audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return CustomerOrderResponse{}, err
	}

	return toCustomerOrderResponse(order), nil
}

func (s *orderService) ListOrders(ctx context.Context, businessID string, page, limit int) ([]CustomerOrderResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var filter *uuid.UUID
	if businessID != "" {
		id, err := uuid.Parse(businessID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid business_id: %w", err)
		}
		filter = &id
	}

	orders, total, err := s.orderRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch customer orders: %w", err)
	}

	result := make([]CustomerOrderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, toCustomerOrderResponse(order))
	}
	return result, total, nil
}

// --- Mapping ---

func toCustomerOrderResponse(order model.CustomerOrder) CustomerOrderResponse {
	resp := CustomerOrderResponse{
		ID:              order.ID.String(),
		BusinessID:      order.BusinessID.String(),
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		CustomerAddress: order.CustomerAddress,
		Notes:           order.Notes,
		Status:          order.Status,
		Items:           make([]OrderItemResponse, 0, len(order.Items)),
		CreatedAt:       order.CreatedAt.Format(timeFormat),
	}
	for _, item := range order.Items {
		ir := OrderItemResponse{
			ID:       item.ID.String(),
			ItemName: item.ItemName,
			Quantity: item.Quantity,
			Notes:    item.Notes,
		}
		if item.CatalogItemID != nil {
			s := item.CatalogItemID.String()
			ir.CatalogItemID = &s
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
