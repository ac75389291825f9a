package repository

import (
	"context"
	"errors"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplaintRepository defines the interface for complaint data access.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Complaint, error)
	FindAll(ctx context.Context, status models.ComplaintStatus) ([]models.Complaint, error)
	Update(ctx context.Context, complaint *models.Complaint) error
}

// GormComplaintRepository implements ComplaintRepository using GORM.
type GormComplaintRepository struct {
	db *gorm.DB
}

func NewGormComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &GormComplaintRepository{db: db}
}

func (r *GormComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

func (r *GormComplaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Order").
		Preload("HandledBy").
		First(&complaint, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *GormComplaintRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Preload("Order").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&complaints).Error
	return complaints, err
}

func (r *GormComplaintRepository) FindAll(ctx context.Context, status models.ComplaintStatus) ([]models.Complaint, error) {
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Order")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var complaints []models.Complaint
	err := query.Order("status, created_at DESC").Find(&complaints).Error
	return complaints, err
}

func (r *GormComplaintRepository) Update(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Save(complaint).Error
}
