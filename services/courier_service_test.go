package services_test

import (
	"context"
	"testing"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCreateCourierProfile_RequiresCourierRole(t *testing.T) {
	customer := &models.User{ID: uuid.New(), Username: "stella", Role: models.RoleCustomer, Active: true}
	svc := services.NewCourierService(newMockCourierRepo(), newMockUserRepo(customer), zap.NewNop())

	_, svcErr := svc.CreateProfile(context.Background(), admin(), &services.CourierProfileInput{UserID: customer.ID})
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindValidation, svcErr.Kind)
}

func TestCreateCourierProfile_OnePerAccount(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "dash", Role: models.RoleCourier, Active: true}
	couriers := newMockCourierRepo()
	svc := services.NewCourierService(couriers, newMockUserRepo(user), zap.NewNop())

	input := &services.CourierProfileInput{UserID: user.ID, Vehicle: "motorcycle", VehiclePlate: "AB-1234"}

	profile, svcErr := svc.CreateProfile(context.Background(), admin(), input)
	assert.Nil(t, svcErr)
	assert.True(t, profile.Available, "new couriers start available")

	_, svcErr = svc.CreateProfile(context.Background(), admin(), input)
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindConflict, svcErr.Kind)
}

func TestSetOwnAvailability(t *testing.T) {
	couriers := newMockCourierRepo()
	actor, profile := courierActorWithProfile(couriers)
	svc := services.NewCourierService(couriers, newMockUserRepo(), zap.NewNop())

	svcErr := svc.SetOwnAvailability(context.Background(), actor, false)
	assert.Nil(t, svcErr)
	assert.False(t, profile.Available)

	// A customer has no courier profile to toggle.
	svcErr = svc.SetOwnAvailability(context.Background(), services.Actor{ID: uuid.New(), Role: models.RoleCustomer}, true)
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindForbidden, svcErr.Kind)
}

func TestListCouriers_FiltersAvailable(t *testing.T) {
	couriers := newMockCourierRepo()
	_, onShift := courierActorWithProfile(couriers)
	_, offShift := courierActorWithProfile(couriers)
	offShift.Available = false
	_ = onShift

	svc := services.NewCourierService(couriers, newMockUserRepo(), zap.NewNop())

	all, svcErr := svc.ListCouriers(context.Background(), admin(), false)
	assert.Nil(t, svcErr)
	assert.Len(t, all, 2)

	available, svcErr := svc.ListCouriers(context.Background(), admin(), true)
	assert.Nil(t, svcErr)
	assert.Len(t, available, 1)
}
