package repository

import (
	"context"
	"errors"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentMethodRepository defines the interface for payment method data
// access. Methods referenced by orders cannot be deleted (RESTRICT).
type PaymentMethodRepository interface {
	GetOrCreate(ctx context.Context, name string, kind models.PaymentMethodKind) (*models.PaymentMethod, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error)
	FindAllActive(ctx context.Context) ([]models.PaymentMethod, error)
}

// GormPaymentMethodRepository implements PaymentMethodRepository using GORM.
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

func NewGormPaymentMethodRepository(db *gorm.DB) PaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

// GetOrCreate resolves a payment method by name, creating it with the given
// kind when missing. POS checkouts rely on this to register ad-hoc labels.
func (r *GormPaymentMethodRepository) GetOrCreate(ctx context.Context, name string, kind models.PaymentMethodKind) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.WithContext(ctx).First(&method, "name = ?", name).Error
	if err == nil {
		return &method, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	method = models.PaymentMethod{Name: name, Kind: kind, Active: true}
	if err := r.db.WithContext(ctx).Create(&method).Error; err != nil {
		// Lost a race with a concurrent create; re-read the winner.
		if isUniqueViolation(err) {
			if err := r.db.WithContext(ctx).First(&method, "name = ?", name).Error; err != nil {
				return nil, err
			}
			return &method, nil
		}
		return nil, err
	}
	return &method, nil
}

func (r *GormPaymentMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.WithContext(ctx).First(&method, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *GormPaymentMethodRepository) FindAllActive(ctx context.Context) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&methods).Error
	return methods, err
}
