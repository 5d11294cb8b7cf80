package service

import (
	"context"
	"encoding/json"
	"fmt"

	"invoicehub/internal/model"
	"invoicehub/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type SupplierRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id"`
}

type SupplierResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	TaxID     string `json:"tax_id"`
	CreatedAt string `json:"created_at"`
}

// --- Interface ---

type SupplierService interface {
	CreateSupplier(ctx context.Context, req SupplierRequest, userID *uuid.UUID) (SupplierResponse, error)
	UpdateSupplier(ctx context.Context, id string, req SupplierRequest, userID *uuid.UUID) (SupplierResponse, error)
	DeleteSupplier(ctx context.Context, id string, userID *uuid.UUID) error
	GetSupplier(ctx context.Context, id string) (SupplierResponse, error)
	ListSuppliers(ctx context.Context, search string, page, limit int) ([]SupplierResponse, int64, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewSupplierService(
	supplierRepo repository.SupplierRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

// --- Implementation ---

func (s *supplierService) CreateSupplier(ctx context.Context, req SupplierRequest, userID *uuid.UUID) (SupplierResponse, error) {
	supplier := model.Supplier{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		TaxID:   req.TaxID,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.supplierRepo.Create(txCtx, &supplier); createErr != nil {
			return fmt.Errorf("failed to create supplier: %w", createErr)
		}
		return s.writeAudit(txCtx, userID, model.ActionCreateSupplier, &supplier)
	})
	if err != nil {
		return SupplierResponse{}, err
	}

	return toSupplierResponse(supplier), nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id string, req SupplierRequest, userID *uuid.UUID) (SupplierResponse, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return SupplierResponse{}, fmt.Errorf("invalid supplier id: %w", err)
	}

	var supplier *model.Supplier
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		supplier, findErr = s.supplierRepo.FindByID(txCtx, supplierID)
		if findErr != nil {
			return fmt.Errorf("supplier not found: %w", findErr)
		}

		supplier.Name = req.Name
		supplier.Email = req.Email
		supplier.Phone = req.Phone
		supplier.Address = req.Address
		supplier.TaxID = req.TaxID

		if updateErr := s.supplierRepo.Update(txCtx, supplier); updateErr != nil {
			return fmt.Errorf("failed to update supplier: %w", updateErr)
		}
		return s.writeAudit(txCtx, userID, model.ActionUpdateSupplier, supplier)
	})
	if err != nil {
		return SupplierResponse{}, err
	}

	return toSupplierResponse(*supplier), nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id string, userID *uuid.UUID) error {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid supplier id: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		supplier, findErr := s.supplierRepo.FindByID(txCtx, supplierID)
		if findErr != nil {
			return fmt.Errorf("supplier not found: %w", findErr)
		}
		if deleteErr := s.supplierRepo.Delete(txCtx, supplierID); deleteErr != nil {
			return fmt.Errorf("failed to delete supplier: %w", deleteErr)
		}
		return s.writeAudit(txCtx, userID, model.ActionDeleteSupplier, supplier)
	})
}

func (s *supplierService) GetSupplier(ctx context.Context, id string) (SupplierResponse, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return SupplierResponse{}, fmt.Errorf("invalid supplier id: %w", err)
	}

	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return SupplierResponse{}, fmt.Errorf("supplier not found: %w", err)
	}
	return toSupplierResponse(*supplier), nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, search string, page, limit int) ([]SupplierResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	suppliers, total, err := s.supplierRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch suppliers: %w", err)
	}

	result := make([]SupplierResponse, 0, len(suppliers))
	for _, supplier := range suppliers {
		result = append(result, toSupplierResponse(supplier))
	}
	return result, total, nil
}

// --- Helpers ---

func (s *supplierService) writeAudit(ctx context.Context, userID *uuid.UUID, action string, supplier *model.Supplier) error {
	details, _ := json.Marshal(map[string]interface{}{"name": supplier.Name})
	audit := model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   supplier.ID.String(),
		EntityName: supplier.Name,
		Details:    string(details),
	}
	if err := s.auditRepo.Create(ctx, &audit); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toSupplierResponse(supplier model.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        supplier.ID.String(),
		Name:      supplier.Name,
		Email:     supplier.Email,
		Phone:     supplier.Phone,
		Address:   supplier.Address,
		TaxID:     supplier.TaxID,
		CreatedAt: supplier.CreatedAt.Format(timeFormat),
	}
}
