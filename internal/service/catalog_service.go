package service

import (
	"context"
	"encoding/json"
	"fmt"

	"invoicehub/internal/model"
	"invoicehub/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CatalogItemRequest struct {
	BusinessID  string `json:"business_id" binding:"required"`
	ItemName    string `json:"item_name" binding:"required"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	Currency    string `json:"currency"`
	Category    string `json:"category"`
	SKU         string `json:"sku"`
	IsActive    *bool  `json:"is_active"`
}

type CatalogItemResponse struct {
	ID          string `json:"id"`
	BusinessID  string `json:"business_id"`
	ItemName    string `json:"item_name"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	Currency    string `json:"currency"`
	Category    string `json:"category"`
	SKU         string `json:"sku"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}

// --- Interface ---

type CatalogService interface {
	CreateItem(ctx context.Context, req CatalogItemRequest, userID *uuid.UUID) (CatalogItemResponse, error)
	UpdateItem(ctx context.Context, id string, req CatalogItemRequest, userID *uuid.UUID) (CatalogItemResponse, error)
	DeleteItem(ctx context.Context, id string, userID *uuid.UUID) error
	ListBusinessCatalog(ctx context.Context, businessID string, activeOnly bool) ([]CatalogItemResponse, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewCatalogService(
	catalogRepo repository.CatalogRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *catalogService) CreateItem(ctx context.Context, req CatalogItemRequest, userID *uuid.UUID) (CatalogItemResponse, error) {
	item, err := itemFromRequest(req)
	if err != nil {
		return CatalogItemResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.catalogRepo.Create(txCtx, item); createErr != nil {
			return fmt.Errorf("failed to create catalog item: %w", createErr)
		}
		return s.writeAudit(txCtx, userID, model.ActionCreateCatalogItem, item)
	})
	if err != nil {
		return CatalogItemResponse{}, err
	}

	return toCatalogItemResponse(*item), nil
}

func (s *catalogService) UpdateItem(ctx context.Context, id string, req CatalogItemRequest, userID *uuid.UUID) (CatalogItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return CatalogItemResponse{}, fmt.Errorf("invalid catalog item id: %w", err)
	}

	var item *model.CatalogItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		item, findErr = s.catalogRepo.FindByID(txCtx, itemID)
		if findErr != nil {
			return fmt.Errorf("catalog item not found: %w", findErr)
		}

		unitPrice, priceErr := decimal.NewFromString(req.UnitPrice)
		if priceErr != nil {
			return fmt.Errorf("invalid unit_price: %w", priceErr)
		}

		item.ItemName = req.ItemName
		item.Description = req.Description
		item.UnitPrice = unitPrice
		if req.Currency != "" {
			item.Currency = req.Currency
		}
		item.Category = req.Category
		item.SKU = req.SKU
		if req.IsActive != nil {
			item.IsActive = *req.IsActive
		}

		if updateErr := s.catalogRepo.Update(txCtx, item); updateErr != nil {
			return fmt.Errorf("failed to update catalog item: %w", updateErr)
		}
		return s.writeAudit(txCtx, userID, model.ActionUpdateCatalogItem, item)
	})
	if err != nil {
		return CatalogItemResponse{}, err
	}

	return toCatalogItemResponse(*item), nil
}

func (s *catalogService) DeleteItem(ctx context.Context, id string, userID *uuid.UUID) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid catalog item id: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, findErr := s.catalogRepo.FindByID(txCtx, itemID)
		if findErr != nil {
			return fmt.Errorf("catalog item not found: %w", findErr)
		}
		if deleteErr := s.catalogRepo.Delete(txCtx, itemID); deleteErr != nil {
			return fmt.Errorf("failed to delete catalog item: %w", deleteErr)
		}
		return s.writeAudit(txCtx, userID, model.ActionDeleteCatalogItem, item)
	})
}

func (s *catalogService) ListBusinessCatalog(ctx context.Context, businessID string, activeOnly bool) ([]CatalogItemResponse, error) {
	id, err := uuid.Parse(businessID)
	if err != nil {
		return nil, fmt.Errorf("invalid business id: %w", err)
	}

	items, err := s.catalogRepo.ListByBusiness(ctx, id, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	result := make([]CatalogItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toCatalogItemResponse(item))
	}
	return result, nil
}

// --- Helpers ---

func (s *catalogService) writeAudit(ctx context.Context, userID *uuid.UUID, action string, item *model.CatalogItem) error {
	details, _ := json.Marshal(map[string]interface{}{
		"business_id": item.BusinessID.String(),
		"item_name":   item.ItemName,
	})
	audit := model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   item.ID.String(),
		EntityName: item.ItemName,
		Details:    string(details),
	}
	if err := s.auditRepo.Create(ctx, &audit); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func itemFromRequest(req CatalogItemRequest) (*model.CatalogItem, error) {
	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("invalid business_id: %w", err)
	}
	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid unit_price: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return &model.CatalogItem{
		BusinessID:  businessID,
		ItemName:    req.ItemName,
		Description: req.Description,
		UnitPrice:   unitPrice,
		Currency:    currency,
		Category:    req.Category,
		SKU:         req.SKU,
		IsActive:    isActive,
	}, nil
}

func toCatalogItemResponse(item model.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:          item.ID.String(),
		BusinessID:  item.BusinessID.String(),
		ItemName:    item.ItemName,
		Description: item.Description,
		UnitPrice:   item.UnitPrice.StringFixed(4),
		Currency:    item.Currency,
		Category:    item.Category,
		SKU:         item.SKU,
		IsActive:    item.IsActive,
		CreatedAt:   item.CreatedAt.Format(timeFormat),
	}
}
