package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CourierProfileInput carries the writable fields of a courier profile.
type CourierProfileInput struct {
	UserID       uuid.UUID `json:"user_id" binding:"required"`
	Vehicle      string    `json:"vehicle"`
	VehiclePlate string    `json:"vehicle_plate"`
}

// CourierService defines the interface for courier fleet management.
// Administrators manage profiles; couriers toggle their own availability.
type CourierService interface {
	CreateProfile(ctx context.Context, actor Actor, input *CourierProfileInput) (*models.CourierProfile, *ServiceError)
	ListCouriers(ctx context.Context, actor Actor, availableOnly bool) ([]models.CourierProfile, *ServiceError)
	SetOwnAvailability(ctx context.Context, actor Actor, available bool) *ServiceError
	SetAvailability(ctx context.Context, actor Actor, courierID uuid.UUID, available bool) *ServiceError
}

// courierServiceImpl implements CourierService.
type courierServiceImpl struct {
	couriers repository.CourierRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

// NewCourierService creates a new CourierService.
func NewCourierService(couriers repository.CourierRepository, users repository.UserRepository, logger *zap.Logger) CourierService {
	return &courierServiceImpl{couriers: couriers, users: users, logger: logger}
}

// CreateProfile attaches a courier profile to an account that already holds
// the courier role. One profile per account.
func (s *courierServiceImpl) CreateProfile(ctx context.Context, actor Actor, input *CourierProfileInput) (*models.CourierProfile, *ServiceError) {
	if !actor.Is(models.RoleAdministrator) {
		return nil, errForbidden("Only administrators may manage couriers")
	}

	user, err := s.users.FindByID(ctx, input.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errNotFound("User not found")
	}
	if err != nil {
		s.logger.Error("Failed to load user", zap.Error(err))
		return nil, errInternal("Failed to load user")
	}
	if user.Role != models.RoleCourier {
		return nil, errValidation(fmt.Sprintf("User %s does not hold the courier role", user.Username))
	}

	if _, err := s.couriers.FindByUserID(ctx, user.ID); err == nil {
		return nil, errConflict(fmt.Sprintf("User %s already has a courier profile", user.Username))
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Failed to check courier profile", zap.Error(err))
		return nil, errInternal("Failed to check courier profile")
	}

	profile := &models.CourierProfile{
		UserID:       user.ID,
		Vehicle:      input.Vehicle,
		VehiclePlate: input.VehiclePlate,
		Available:    true,
	}
	if err := s.couriers.Create(ctx, profile); err != nil {
		s.logger.Error("Failed to create courier profile", zap.Error(err))
		return nil, errInternal("Failed to create courier profile")
	}

	s.logger.Info("Courier profile created",
		zap.String("user_id", user.ID.String()),
		zap.String("profile_id", profile.ID.String()),
	)
	return profile, nil
}

func (s *courierServiceImpl) ListCouriers(ctx context.Context, actor Actor, availableOnly bool) ([]models.CourierProfile, *ServiceError) {
	if !actor.Is(models.RoleAdministrator, models.RoleCashier) {
		return nil, errForbidden("Staff role required")
	}

	profiles, err := s.couriers.FindAll(ctx, availableOnly)
	if err != nil {
		s.logger.Error("Failed to list couriers", zap.Error(err))
		return nil, errInternal("Failed to list couriers")
	}
	return profiles, nil
}

// SetOwnAvailability lets a courier go on or off shift.
func (s *courierServiceImpl) SetOwnAvailability(ctx context.Context, actor Actor, available bool) *ServiceError {
	if !actor.Is(models.RoleCourier) {
		return errForbidden("Courier role required")
	}

	profile, err := s.couriers.FindByUserID(ctx, actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return errForbidden("No courier profile for this account")
	}
	if err != nil {
		s.logger.Error("Failed to load courier profile", zap.Error(err))
		return errInternal("Failed to load courier profile")
	}

	if err := s.couriers.SetAvailable(ctx, profile.ID, available); err != nil {
		s.logger.Error("Failed to set courier availability", zap.Error(err))
		return errInternal("Failed to update availability")
	}

	s.logger.Info("Courier availability changed",
		zap.String("profile_id", profile.ID.String()),
		zap.Bool("available", available),
	)
	return nil
}

// SetAvailability is the administrator override of a courier's shift flag.
func (s *courierServiceImpl) SetAvailability(ctx context.Context, actor Actor, courierID uuid.UUID, available bool) *ServiceError {
	if !actor.Is(models.RoleAdministrator) {
		return errForbidden("Only administrators may manage couriers")
	}

	err := s.couriers.SetAvailable(ctx, courierID, available)
	if errors.Is(err, repository.ErrNotFound) {
		return errNotFound("Courier not found")
	}
	if err != nil {
		s.logger.Error("Failed to set courier availability", zap.Error(err))
		return errInternal("Failed to update availability")
	}
	return nil
}
