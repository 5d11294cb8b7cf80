package repository

import (
	"context"

	"invoicehub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.BusinessProfile) error
	Update(ctx context.Context, profile *model.BusinessProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BusinessProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.BusinessProfile, error)
	UpdateLogoURL(ctx context.Context, userID uuid.UUID, logoURL string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.BusinessProfile) error {
	return GetDB(ctx, r.db).Create(profile).Error
}

func (r *profileRepository) Update(ctx context.Context, profile *model.BusinessProfile) error {
	return GetDB(ctx, r.db).Save(profile).Error
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BusinessProfile, error) {
	var profile model.BusinessProfile
	if err := GetDB(ctx, r.db).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.BusinessProfile, error) {
	var profile model.BusinessProfile
	if err := GetDB(ctx, r.db).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) UpdateLogoURL(ctx context.Context, userID uuid.UUID, logoURL string) error {
	return GetDB(ctx, r.db).Model(&model.BusinessProfile{}).
		Where("user_id = ?", userID).
		Update("logo_url", logoURL).Error
}
