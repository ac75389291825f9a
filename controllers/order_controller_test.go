package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mapachitomamalon/CosmoFood/controllers"
	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/repository"
	"github.com/Mapachitomamalon/CosmoFood/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---- mock OrderService ----

type mockOrderService struct {
	checkoutFn   func(ctx context.Context, customerID uuid.UUID, req *services.CheckoutRequest) (*models.Order, *services.ServiceError)
	posFn        func(ctx context.Context, actor services.Actor, req *services.POSCheckoutRequest) (*models.Order, *services.ServiceError)
	transitionFn func(ctx context.Context, orderID uuid.UUID, actor services.Actor, status models.OrderStatus) (*models.Order, *services.ServiceError)
	assignFn     func(ctx context.Context, orderID uuid.UUID, courierID *uuid.UUID, actor services.Actor) (*models.Order, *services.ServiceError)
}

func (m *mockOrderService) CreateOrderFromCart(ctx context.Context, customerID uuid.UUID, req *services.CheckoutRequest) (*models.Order, *services.ServiceError) {
	return m.checkoutFn(ctx, customerID, req)
}
func (m *mockOrderService) POSCheckout(ctx context.Context, actor services.Actor, req *services.POSCheckoutRequest) (*models.Order, *services.ServiceError) {
	return m.posFn(ctx, actor, req)
}
func (m *mockOrderService) ApplyTransition(ctx context.Context, orderID uuid.UUID, actor services.Actor, status models.OrderStatus) (*models.Order, *services.ServiceError) {
	return m.transitionFn(ctx, orderID, actor, status)
}
func (m *mockOrderService) AssignCourier(ctx context.Context, orderID uuid.UUID, courierID *uuid.UUID, actor services.Actor) (*models.Order, *services.ServiceError) {
	return m.assignFn(ctx, orderID, courierID, actor)
}
func (m *mockOrderService) GetOrder(_ context.Context, _ services.Actor, _ uuid.UUID) (*models.Order, *services.ServiceError) {
	return nil, nil
}
func (m *mockOrderService) ListOrders(_ context.Context, _ services.Actor, _ repository.OrderFilter) ([]models.Order, *services.ServiceError) {
	return nil, nil
}
func (m *mockOrderService) CourierOrders(_ context.Context, _ services.Actor) ([]models.Order, *services.ServiceError) {
	return nil, nil
}
func (m *mockOrderService) PaymentMethods(_ context.Context) ([]models.PaymentMethod, *services.ServiceError) {
	return nil, nil
}

// ---- helpers ----

func setupRouter(svc services.OrderService, actor services.Actor) *gin.Engine {
	r := gin.New()
	oc := controllers.NewOrderController(svc)

	r.Use(func(c *gin.Context) {
		c.Set("actor", actor)
		c.Next()
	})

	r.POST("/orders/checkout", oc.Checkout)
	r.POST("/pos/checkout", oc.POSCheckout)
	r.PATCH("/orders/:id/status", oc.UpdateStatus)
	r.PATCH("/orders/:id/courier", oc.AssignCourier)
	return r
}

func TestPOSCheckout_ForwardsIdempotencyKey(t *testing.T) {
	var captured *services.POSCheckoutRequest
	svc := &mockOrderService{
		posFn: func(_ context.Context, _ services.Actor, req *services.POSCheckoutRequest) (*models.Order, *services.ServiceError) {
			captured = req
			return &models.Order{OrderNumber: "1234567890"}, nil
		},
	}
	r := setupRouter(svc, services.Actor{ID: uuid.New(), Role: models.RoleCashier})

	body, _ := json.Marshal(gin.H{
		"items":          []gin.H{{"product_id": uuid.New(), "quantity": 1}},
		"payment_method": "Cash",
	})
	req := httptest.NewRequest(http.MethodPost, "/pos/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "register-7-sale-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	if assert.NotNil(t, captured) {
		assert.Equal(t, "register-7-sale-42", captured.IdempotencyKey)
	}
}

func TestUpdateStatus_MapsServiceError(t *testing.T) {
	svc := &mockOrderService{
		transitionFn: func(_ context.Context, _ uuid.UUID, _ services.Actor, _ models.OrderStatus) (*models.Order, *services.ServiceError) {
			return nil, &services.ServiceError{
				StatusCode: http.StatusForbidden,
				Kind:       services.KindForbidden,
				Message:    "Order is not assigned to this courier",
			}
		},
	}
	r := setupRouter(svc, services.Actor{ID: uuid.New(), Role: models.RoleCourier})

	body, _ := json.Marshal(gin.H{"status": "delivered"})
	req := httptest.NewRequest(http.MethodPatch, "/orders/"+uuid.NewString()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "forbidden", resp["kind"])
}

func TestUpdateStatus_InvalidOrderID(t *testing.T) {
	r := setupRouter(&mockOrderService{}, services.Actor{ID: uuid.New(), Role: models.RoleAdministrator})

	body, _ := json.Marshal(gin.H{"status": "confirmed"})
	req := httptest.NewRequest(http.MethodPatch, "/orders/not-a-uuid/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignCourier_NullDetaches(t *testing.T) {
	var capturedID *uuid.UUID
	called := false
	svc := &mockOrderService{
		assignFn: func(_ context.Context, _ uuid.UUID, courierID *uuid.UUID, _ services.Actor) (*models.Order, *services.ServiceError) {
			called = true
			capturedID = courierID
			return &models.Order{}, nil
		},
	}
	r := setupRouter(svc, services.Actor{ID: uuid.New(), Role: models.RoleAdministrator})

	req := httptest.NewRequest(http.MethodPatch, "/orders/"+uuid.NewString()+"/courier",
		bytes.NewReader([]byte(`{"courier_id": null}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
	assert.Nil(t, capturedID)
}
