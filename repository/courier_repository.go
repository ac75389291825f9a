package repository

import (
	"context"
	"errors"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourierRepository defines the interface for courier profile data access.
type CourierRepository interface {
	Create(ctx context.Context, profile *models.CourierProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CourierProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.CourierProfile, error)
	FindAll(ctx context.Context, availableOnly bool) ([]models.CourierProfile, error)
	Update(ctx context.Context, profile *models.CourierProfile) error
	SetAvailable(ctx context.Context, id uuid.UUID, available bool) error
}

// GormCourierRepository implements CourierRepository using GORM.
type GormCourierRepository struct {
	db *gorm.DB
}

func NewGormCourierRepository(db *gorm.DB) CourierRepository {
	return &GormCourierRepository{db: db}
}

func (r *GormCourierRepository) Create(ctx context.Context, profile *models.CourierProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *GormCourierRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CourierProfile, error) {
	var profile models.CourierProfile
	err := r.db.WithContext(ctx).Preload("User").First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *GormCourierRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.CourierProfile, error) {
	var profile models.CourierProfile
	err := r.db.WithContext(ctx).Preload("User").First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *GormCourierRepository) FindAll(ctx context.Context, availableOnly bool) ([]models.CourierProfile, error) {
	query := r.db.WithContext(ctx).Preload("User")
	if availableOnly {
		query = query.Where("available = ?", true)
	}
	var profiles []models.CourierProfile
	err := query.Find(&profiles).Error
	return profiles, err
}

func (r *GormCourierRepository) Update(ctx context.Context, profile *models.CourierProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *GormCourierRepository) SetAvailable(ctx context.Context, id uuid.UUID, available bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.CourierProfile{}).
		Where("id = ?", id).
		Update("available", available)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
