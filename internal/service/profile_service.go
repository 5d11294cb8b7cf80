package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"invoicehub/internal/model"
	"invoicehub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ObjectStore abstracts blob storage for uploaded files. Uploads overwrite
// any existing object at the same path.
type ObjectStore interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	PublicURL(objectName string) string
}

// --- DTOs ---

type SaveProfileRequest struct {
	UserID          string `json:"user_id" binding:"required"`
	BusinessName    string `json:"business_name" binding:"required"`
	ContactEmail    string `json:"contact_email" binding:"required,email"`
	ContactPhone    string `json:"contact_phone"`
	Address         string `json:"address"`
	TaxID           string `json:"tax_id"`
	DefaultCurrency string `json:"default_currency"`
	Timezone        string `json:"timezone"`
}

type ProfileResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	BusinessName    string `json:"business_name"`
	LogoURL         string `json:"logo_url"`
	ContactEmail    string `json:"contact_email"`
	ContactPhone    string `json:"contact_phone"`
	Address         string `json:"address"`
	TaxID           string `json:"tax_id"`
	DefaultCurrency string `json:"default_currency"`
	Timezone        string `json:"timezone"`
}

// --- Interface ---

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (ProfileResponse, error)
	SaveProfile(ctx context.Context, req SaveProfileRequest) (ProfileResponse, error)
	UploadLogo(ctx context.Context, userID, fileName string, reader io.Reader, size int64, contentType string) (ProfileResponse, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	store       ObjectStore
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	store ObjectStore,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		store:       store,
	}
}

// --- Implementation ---

func (s *profileService) GetProfile(ctx context.Context, userID string) (ProfileResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return ProfileResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	profile, err := s.profileRepo.FindByUserID(ctx, id)
	if err != nil {
		return ProfileResponse{}, fmt.Errorf("business profile not found: %w", err)
	}
	return toProfileResponse(*profile), nil
}

// SaveProfile creates the profile on first save and updates it afterwards.
// One profile per user.
func (s *profileService) SaveProfile(ctx context.Context, req SaveProfileRequest) (ProfileResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return ProfileResponse{}, fmt.Errorf("invalid user_id: %w", err)
	}

	currency := req.DefaultCurrency
	if currency == "" {
		currency = "USD"
	}
	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	var profile *model.BusinessProfile
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, findErr := s.profileRepo.FindByUserID(txCtx, userID)
		switch {
		case findErr == nil:
			existing.BusinessName = req.BusinessName
			existing.ContactEmail = req.ContactEmail
			existing.ContactPhone = req.ContactPhone
			existing.Address = req.Address
			existing.TaxID = req.TaxID
			existing.DefaultCurrency = currency
			existing.Timezone = timezone
			if updateErr := s.profileRepo.Update(txCtx, existing); updateErr != nil {
				return fmt.Errorf("failed to update business profile: %w", updateErr)
			}
			profile = existing
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			profile = &model.BusinessProfile{
				UserID:          userID,
				BusinessName:    req.BusinessName,
				ContactEmail:    req.ContactEmail,
				ContactPhone:    req.ContactPhone,
				Address:         req.Address,
				TaxID:           req.TaxID,
				DefaultCurrency: currency,
				Timezone:        timezone,
			}
			if createErr := s.profileRepo.Create(txCtx, profile); createErr != nil {
				return fmt.Errorf("failed to create business profile: %w", createErr)
			}
		default:
			return fmt.Errorf("failed to load business profile: %w", findErr)
		}

		details, _ := json.Marshal(map[string]interface{}{"business_name": profile.BusinessName})
		audit := model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionSaveBusinessProfile,
			EntityID:   profile.ID.String(),
			EntityName: profile.BusinessName,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Create(txCtx, &audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return ProfileResponse{}, err
	}

	return toProfileResponse(*profile), nil
}

// UploadLogo stores the logo under <user_id>/logo.<ext>, overwriting the
// previous one, and saves the resulting public URL on the profile.
func (s *profileService) UploadLogo(ctx context.Context, userID, fileName string, reader io.Reader, size int64, contentType string) (ProfileResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return ProfileResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	profile, err := s.profileRepo.FindByUserID(ctx, id)
	if err != nil {
		return ProfileResponse{}, fmt.Errorf("business profile not found: %w", err)
	}

	ext := strings.TrimPrefix(path.Ext(fileName), ".")
	if ext == "" {
		ext = "png"
	}
	objectName := fmt.Sprintf("%s/logo.%s", userID, ext)

	if err := s.store.Upload(ctx, objectName, reader, size, contentType); err != nil {
		return ProfileResponse{}, fmt.Errorf("failed to upload logo: %w", err)
	}

	logoURL := s.store.PublicURL(objectName)
	if err := s.profileRepo.UpdateLogoURL(ctx, id, logoURL); err != nil {
		return ProfileResponse{}, fmt.Errorf("failed to save logo url: %w", err)
	}
	profile.LogoURL = logoURL

	return toProfileResponse(*profile), nil
}

func toProfileResponse(profile model.BusinessProfile) ProfileResponse {
	return ProfileResponse{
		ID:              profile.ID.String(),
		UserID:          profile.UserID.String(),
		BusinessName:    profile.BusinessName,
		LogoURL:         profile.LogoURL,
		ContactEmail:    profile.ContactEmail,
		ContactPhone:    profile.ContactPhone,
		Address:         profile.Address,
		TaxID:           profile.TaxID,
		DefaultCurrency: profile.DefaultCurrency,
		Timezone:        profile.Timezone,
	}
}
