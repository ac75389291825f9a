package services_test

import (
	"context"
	"testing"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func cashier() services.Actor {
	return services.Actor{ID: uuid.New(), Role: models.RoleCashier}
}

func TestPOSCheckout_Success(t *testing.T) {
	product := pizza(5)
	orders := newMockOrderRepo(product)
	walkIn := &models.User{ID: uuid.New(), Username: "walkin", Role: models.RoleCustomer, Active: true}
	f := newOrderFixture(orders, newMockCourierRepo(), newMockUserRepo(walkIn), newMockPaymentRepo())

	order, svcErr := f.svc.POSCheckout(context.Background(), cashier(), &services.POSCheckoutRequest{
		Lines:        []services.POSLine{{ProductID: product.ID, Quantity: 5}},
		PaymentLabel: "Cash",
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, models.StatusPreparing, order.Status, "POS orders skip the pending stage")
	assert.NotNil(t, order.PreparingAt)
	assert.Equal(t, models.OrderTypeDineIn, order.OrderType)
	assert.Equal(t, walkIn.ID, *order.CustomerID)
	assert.True(t, order.Total.Equal(decimal.NewFromFloat(50.00)))
	assert.Equal(t, 0, product.Stock)

	if assert.Len(t, f.publisher.events, 1) {
		assert.Equal(t, "order.created", f.publisher.events[0].Event)
	}
}

func TestPOSCheckout_CustomerForbidden(t *testing.T) {
	f := newOrderFixture(newMockOrderRepo(), newMockCourierRepo(), newMockUserRepo(), newMockPaymentRepo())

	actor := services.Actor{ID: uuid.New(), Role: models.RoleCustomer}
	_, svcErr := f.svc.POSCheckout(context.Background(), actor, &services.POSCheckoutRequest{
		Lines:        []services.POSLine{{ProductID: uuid.New(), Quantity: 1}},
		PaymentLabel: "Cash",
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindForbidden, svcErr.Kind)
}

func TestPOSCheckout_AtomicAcrossLines(t *testing.T) {
	// Third line exceeds stock: the whole sale fails and no stock moves.
	p1 := pizza(10)
	p2 := &models.Product{ID: uuid.New(), Name: "Nebula Soda", Price: decimal.NewFromFloat(2.50), Stock: 10, Active: true}
	p3 := &models.Product{ID: uuid.New(), Name: "Meteor Fries", Price: decimal.NewFromFloat(4.00), Stock: 2, Active: true}
	orders := newMockOrderRepo(p1, p2, p3)
	f := newOrderFixture(orders, newMockCourierRepo(), newMockUserRepo(), newMockPaymentRepo())

	_, svcErr := f.svc.POSCheckout(context.Background(), cashier(), &services.POSCheckoutRequest{
		Lines: []services.POSLine{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 2},
			{ProductID: p3.ID, Quantity: 3},
		},
		PaymentLabel: "Cash",
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindInsufficientStock, svcErr.Kind)
	assert.Contains(t, svcErr.Message, "Meteor Fries")
	assert.Equal(t, 10, p1.Stock)
	assert.Equal(t, 10, p2.Stock)
	assert.Equal(t, 2, p3.Stock)
	assert.Nil(t, orders.created)
}

func TestPOSCheckout_SellsInactiveProducts(t *testing.T) {
	// The register sells what is physically on the counter.
	product := pizza(5)
	product.Active = false
	orders := newMockOrderRepo(product)
	f := newOrderFixture(orders, newMockCourierRepo(), newMockUserRepo(), newMockPaymentRepo())

	order, svcErr := f.svc.POSCheckout(context.Background(), cashier(), &services.POSCheckoutRequest{
		Lines:        []services.POSLine{{ProductID: product.ID, Quantity: 1}},
		PaymentLabel: "Cash",
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, 4, product.Stock)
	assert.NotNil(t, order)
}

func TestPOSCheckout_UnknownProduct(t *testing.T) {
	f := newOrderFixture(newMockOrderRepo(), newMockCourierRepo(), newMockUserRepo(), newMockPaymentRepo())

	_, svcErr := f.svc.POSCheckout(context.Background(), cashier(), &services.POSCheckoutRequest{
		Lines:        []services.POSLine{{ProductID: uuid.New(), Quantity: 1}},
		PaymentLabel: "Cash",
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindNoProduct, svcErr.Kind)
}

func TestPOSCheckout_WalkInMissingFallsBackToCashier(t *testing.T) {
	product := pizza(5)
	orders := newMockOrderRepo(product)
	f := newOrderFixture(orders, newMockCourierRepo(), newMockUserRepo(), newMockPaymentRepo())

	actor := cashier()
	order, svcErr := f.svc.POSCheckout(context.Background(), actor, &services.POSCheckoutRequest{
		Lines:        []services.POSLine{{ProductID: product.ID, Quantity: 1}},
		PaymentLabel: "Cash",
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, actor.ID, *order.CustomerID)
}

func TestPOSCheckout_IdempotentReplay(t *testing.T) {
	product := pizza(5)
	orders := newMockOrderRepo(product)
	f := newOrderFixture(orders, newMockCourierRepo(), newMockUserRepo(), newMockPaymentRepo())

	req := &services.POSCheckoutRequest{
		Lines:          []services.POSLine{{ProductID: product.ID, Quantity: 2}},
		PaymentLabel:   "Cash",
		IdempotencyKey: "register-7-sale-42",
	}

	first, svcErr := f.svc.POSCheckout(context.Background(), cashier(), req)
	assert.Nil(t, svcErr)
	assert.Equal(t, 3, product.Stock)

	second, svcErr := f.svc.POSCheckout(context.Background(), cashier(), req)
	assert.Nil(t, svcErr)
	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	assert.Equal(t, 3, product.Stock, "replay must not sell the items twice")
	assert.Len(t, f.publisher.events, 1)
}

func TestPOSCheckout_PaymentMethodCreatedOnDemand(t *testing.T) {
	product := pizza(5)
	orders := newMockOrderRepo(product)
	payments := newMockPaymentRepo()
	f := newOrderFixture(orders, newMockCourierRepo(), newMockUserRepo(), payments)

	_, svcErr := f.svc.POSCheckout(context.Background(), cashier(), &services.POSCheckoutRequest{
		Lines:        []services.POSLine{{ProductID: product.ID, Quantity: 1}},
		PaymentLabel: "Register Card",
	})

	assert.Nil(t, svcErr)
	methods, _ := payments.FindAllActive(context.Background())
	if assert.Len(t, methods, 1) {
		assert.Equal(t, "Register Card", methods[0].Name)
		assert.Equal(t, models.PaymentLocal, methods[0].Kind)
	}
}

func TestPOSCheckout_RejectsEmptySale(t *testing.T) {
	f := newOrderFixture(newMockOrderRepo(), newMockCourierRepo(), newMockUserRepo(), newMockPaymentRepo())

	_, svcErr := f.svc.POSCheckout(context.Background(), cashier(), &services.POSCheckoutRequest{
		PaymentLabel: "Cash",
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindValidation, svcErr.Kind)
}
